package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/util/metrics"
	"github.com/mhsanaei/mediahub/web/entity"
	"github.com/mhsanaei/mediahub/web/service"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController serves the media listing and the account routes.
type IndexController struct {
	BaseController

	userService  *service.UserService
	mediaService *service.MediaService
	metrics      *metrics.Metrics
}

// NewIndexController creates a new IndexController and initializes its routes.
// limiter guards the credential POST endpoints.
func NewIndexController(g *gin.RouterGroup, users *service.UserService, media *service.MediaService, m *metrics.Metrics, limiter gin.HandlerFunc) *IndexController {
	a := &IndexController{
		userService:  users,
		mediaService: media,
		metrics:      m,
	}
	a.initRouter(g, limiter)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup, limiter gin.HandlerFunc) {
	g.GET("/", a.index)

	g.GET("/register", a.registerPage)
	g.POST("/register", limiter, a.register)

	g.GET("/login", a.loginPage)
	g.POST("/login", limiter, a.login)

	g.GET("/logout", a.checkLogin, a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	media, err := a.mediaService.List()
	if err != nil {
		serverError(c, err)
		return
	}
	html(c, "index.html", "pages.home.title", gin.H{"media": media})
}

func (a *IndexController) registerPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	html(c, "register.html", "pages.register.title", nil)
}

func (a *IndexController) register(c *gin.Context) {
	var form entity.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, "/register", "toasts.invalidForm")
		return
	}

	user, err := a.userService.Register(form.Username, form.Email, form.Password, form.Creator())
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		flashRedirect(c, "/register", "toasts.usernameTaken")
		return
	case errors.Is(err, service.ErrEmailTaken):
		flashRedirect(c, "/register", "toasts.emailTaken")
		return
	case errors.Is(err, service.ErrMissingCredentials):
		flashRedirect(c, "/register", "toasts.invalidForm")
		return
	case err != nil:
		serverError(c, err)
		return
	}

	logger.Infof("registered user %q (creator=%v) from %s", user.Username, user.IsCreator, getRemoteIp(c))
	flashRedirect(c, "/login", "toasts.registered")
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	html(c, "login.html", "pages.login.title", gin.H{"next": c.Query("next")})
}

// login never reveals whether the username or the password was wrong.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	next := safeNext(c.Query("next"))
	retry := "/login"
	if next != "/" {
		retry = "/login?next=" + url.QueryEscape(next)
	}

	if err := c.ShouldBind(&form); err != nil {
		a.metrics.IncLoginFailure()
		flashRedirect(c, retry, "toasts.invalidCredentials")
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password)
	if user == nil {
		a.metrics.IncLoginFailure()
		logger.Warningf("failed login for %q from %s", form.Username, getRemoteIp(c))
		flashRedirect(c, retry, "toasts.invalidCredentials")
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		serverError(c, err)
		return
	}
	logger.Infof("%s logged in successfully, Ip Address: %s", user.Username, getRemoteIp(c))
	c.Redirect(http.StatusSeeOther, next)
}

func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/")
}
