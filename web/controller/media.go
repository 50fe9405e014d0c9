package controller

import (
	"errors"
	"net/http"

	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/util/metrics"
	"github.com/mhsanaei/mediahub/web/entity"
	"github.com/mhsanaei/mediahub/web/service"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-gonic/gin"
)

// MediaController handles upload, deletion, comments and ratings.
type MediaController struct {
	BaseController

	mediaService       *service.MediaService
	interactionService *service.InteractionService
	metrics            *metrics.Metrics
	maxUploadBytes     int64
}

// NewMediaController creates a new MediaController and initializes its routes.
func NewMediaController(g *gin.RouterGroup, media *service.MediaService, interactions *service.InteractionService, m *metrics.Metrics, maxUploadBytes int64) *MediaController {
	a := &MediaController{
		mediaService:       media,
		interactionService: interactions,
		metrics:            m,
		maxUploadBytes:     maxUploadBytes,
	}
	a.initRouter(g)
	return a
}

func (a *MediaController) initRouter(g *gin.RouterGroup) {
	g = g.Group("")
	g.Use(a.checkLogin)

	g.GET("/upload", a.checkCreator, a.uploadPage)
	g.POST("/upload", a.checkCreator, a.upload)
	g.POST("/delete/:id", a.delete)
	g.POST("/comment/:id", a.comment)
	g.POST("/rate/:id", a.rate)
}

// checkCreator rejects users without the creator flag.
func (a *MediaController) checkCreator(c *gin.Context) {
	if user := session.GetLoginUser(c); user == nil || !user.IsCreator {
		flashRedirect(c, "/", "toasts.creatorsOnly")
		c.Abort()
		return
	}
	c.Next()
}

func (a *MediaController) uploadPage(c *gin.Context) {
	html(c, "upload.html", "pages.upload.title", nil)
}

func (a *MediaController) upload(c *gin.Context) {
	if a.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxUploadBytes)
	}

	var form entity.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			flashRedirect(c, "/upload", "toasts.fileTooLarge")
		} else {
			flashRedirect(c, "/upload", "toasts.invalidForm")
		}
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		switch {
		case isTooLarge(err):
			flashRedirect(c, "/upload", "toasts.fileTooLarge")
		case errors.Is(err, http.ErrMissingFile) && hasFormValue(c, "file"):
			// the browser sent the part without choosing a file
			flashRedirect(c, "/upload", "toasts.noSelectedFile")
		default:
			flashRedirect(c, "/upload", "toasts.noFilePart")
		}
		return
	}
	if fileHeader.Filename == "" {
		flashRedirect(c, "/upload", "toasts.noSelectedFile")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer file.Close()

	user := session.GetLoginUser(c)
	media, err := a.mediaService.Upload(user, service.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		Filename:    fileHeader.Filename,
		Content:     file,
	})
	switch {
	case errors.Is(err, service.ErrNotCreator):
		flashRedirect(c, "/", "toasts.creatorsOnly")
		return
	case errors.Is(err, service.ErrNoFile):
		flashRedirect(c, "/upload", "toasts.noSelectedFile")
		return
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		flashRedirect(c, "/upload", "toasts.fileTypeNotAllowed")
		return
	case errors.Is(err, service.ErrInvalidFilename):
		flashRedirect(c, "/upload", "toasts.invalidFilename")
		return
	case errors.Is(err, service.ErrEmptyTitle):
		flashRedirect(c, "/upload", "toasts.titleRequired")
		return
	case err != nil:
		serverError(c, err)
		return
	}

	a.metrics.IncUpload()
	logger.Infof("%s uploaded media %d (%s, %s)", user.Username, media.Id, media.Filename, media.ContentType)
	flashRedirect(c, "/", "toasts.uploaded")
}

func (a *MediaController) delete(c *gin.Context) {
	var uri entity.MediaUri
	if err := c.ShouldBindUri(&uri); err != nil {
		notFound(c)
		return
	}

	user := session.GetLoginUser(c)
	err := a.mediaService.Delete(user, uri.Id)
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		notFound(c)
		return
	case errors.Is(err, service.ErrNotOwner):
		logger.Warningf("%s tried to delete media %d owned by someone else", user.Username, uri.Id)
		flashRedirect(c, "/", "toasts.noPermission")
		return
	case err != nil:
		serverError(c, err)
		return
	}

	logger.Infof("%s deleted media %d", user.Username, uri.Id)
	flashRedirect(c, "/", "toasts.deleted")
}

func (a *MediaController) comment(c *gin.Context) {
	var uri entity.MediaUri
	if err := c.ShouldBindUri(&uri); err != nil {
		notFound(c)
		return
	}
	var form entity.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, "/", "toasts.commentEmpty")
		return
	}

	user := session.GetLoginUser(c)
	_, err := a.interactionService.AddComment(user.Id, uri.Id, form.Content)
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		notFound(c)
		return
	case errors.Is(err, service.ErrEmptyComment):
		flashRedirect(c, "/", "toasts.commentEmpty")
		return
	case err != nil:
		serverError(c, err)
		return
	}
	flashRedirect(c, "/", "toasts.commentAdded")
}

func (a *MediaController) rate(c *gin.Context) {
	var uri entity.MediaUri
	if err := c.ShouldBindUri(&uri); err != nil {
		notFound(c)
		return
	}
	var form entity.RateForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, "/", "toasts.invalidRating")
		return
	}

	user := session.GetLoginUser(c)
	created, err := a.interactionService.Rate(user.Id, uri.Id, form.Rating)
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		notFound(c)
		return
	case errors.Is(err, service.ErrInvalidRating):
		flashRedirect(c, "/", "toasts.invalidRating")
		return
	case err != nil:
		serverError(c, err)
		return
	}

	a.metrics.IncRating(created)
	if created {
		flashRedirect(c, "/", "toasts.ratingSubmitted")
	} else {
		flashRedirect(c, "/", "toasts.ratingUpdated")
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func hasFormValue(c *gin.Context, key string) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}
