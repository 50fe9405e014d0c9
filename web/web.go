// Package web provides the mediahub HTTP server: routing, embedded templates
// and assets, sessions, and server lifecycle.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mhsanaei/mediahub/config"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/util/common"
	"github.com/mhsanaei/mediahub/util/metrics"
	"github.com/mhsanaei/mediahub/util/random"
	"github.com/mhsanaei/mediahub/web/controller"
	"github.com/mhsanaei/mediahub/web/locale"
	"github.com/mhsanaei/mediahub/web/middleware"
	"github.com/mhsanaei/mediahub/web/network"
	"github.com/mhsanaei/mediahub/web/service"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

var startTime = time.Now()

type wrapAssetsFS struct {
	embed.FS
}

func (f *wrapAssetsFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open("assets/" + name)
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFile{File: file}, nil
}

type wrapAssetsFile struct {
	fs.File
}

func (f *wrapAssetsFile) Stat() (fs.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFileInfo{FileInfo: info}, nil
}

// wrapAssetsFileInfo reports the process start time so embedded assets get a
// stable Last-Modified header.
type wrapAssetsFileInfo struct {
	fs.FileInfo
}

func (f *wrapAssetsFileInfo) ModTime() time.Time {
	return startTime
}

// Server is the mediahub web server. The database handle is owned by the
// caller; Stop does not close it.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	db       *gorm.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	userService        *service.UserService
	mediaService       *service.MediaService
	interactionService *service.InteractionService

	index *controller.IndexController
	media *controller.MediaController

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server backed by db.
func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{db: db, ctx: ctx, cancel: cancel}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"i18n":       locale.I18n,
		"formatSize": common.FormatSize,
		"seq": func(from, to int) []int {
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}

// getHtmlTemplate parses the embedded page templates.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

func sessionSecret() []byte {
	secret := config.GetSecretKey()
	if secret == "" {
		logger.Warning("SECRET_KEY is not set, sessions will not survive a restart")
		secret = random.Seq(64)
	}
	return []byte(secret)
}

// initRouter initializes Gin, registers middleware, templates, static assets,
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}

	storage, err := service.NewFileStorage(config.GetUploadFolder())
	if err != nil {
		return nil, err
	}
	s.userService = service.NewUserService(s.db)
	s.mediaService = service.NewMediaService(s.db, storage)
	s.interactionService = service.NewInteractionService(s.db)

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = metrics.New(s.registry)

	engine := gin.Default()
	engine.MaxMultipartMemory = 8 << 20

	engine.Use(middleware.MetricsMiddleware(s.metrics))
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/uploads/", "/metrics"}),
	))

	certFile, keyFile := config.GetCertFiles()
	store := cookie.NewStore(sessionSecret())
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.GetSessionMaxAge() * 60,
		HttpOnly: true,
		Secure:   certFile != "" && keyFile != "",
		SameSite: http.SameSiteLaxMode,
	})
	engine.Use(sessions.Sessions(session.CookieName, store))
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(middleware.CurrentUser(s.userService))

	funcMap := templateFuncs()
	engine.SetFuncMap(funcMap)
	if config.IsDebug() {
		engine.LoadHTMLGlob("web/html/*.html")
		engine.StaticFS("/assets", http.FS(os.DirFS("web/assets")))
	} else {
		tpl, err := s.getHtmlTemplate(funcMap)
		if err != nil {
			return nil, err
		}
		engine.SetHTMLTemplate(tpl)
		engine.StaticFS("/assets", http.FS(&wrapAssetsFS{FS: assetsFS}))
	}
	engine.Static("/uploads", s.mediaService.Storage().Dir())

	if config.IsMetricsEnabled() {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	limitCfg := middleware.DefaultRateLimitConfig()
	limitCfg.OnLimit = func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, controller.I18nWeb(c, "toasts.tooManyRequests"))
	}
	limiter := middleware.RateLimitMiddleware(limitCfg)

	g := engine.Group("/")
	s.index = controller.NewIndexController(g, s.userService, s.mediaService, s.metrics, limiter)
	s.media = controller.NewMediaController(g, s.mediaService, s.interactionService, s.metrics, config.GetMaxUploadBytes())

	engine.NoRoute(controller.NotFound)

	return engine, nil
}

// Start builds the router and begins serving in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	certFile, keyFile := config.GetCertFiles()
	if certFile != "" && keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			_ = listener.Close()
			return err
		}
		listener = network.NewRedirectListener(listener)
		listener = tls.NewListener(listener, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		logger.Info("Web server running HTTPS on", listener.Addr())
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer common.Recover("web server")
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop() error {
	var err1, err2 error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		err1 = s.httpServer.Shutdown(shutdownCtx)
	}
	s.cancel()
	if s.listener != nil {
		err2 = s.listener.Close()
		if isClosedErr(err2) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

func isClosedErr(err error) bool {
	return err != nil && errors.Is(err, net.ErrClosed)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
