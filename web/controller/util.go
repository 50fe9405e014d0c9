package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/mhsanaei/mediahub/config"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// html renders a page with the common layout data: title, current user and pending flashes.
func html(c *gin.Context, name string, title string, data gin.H) {
	htmlStatus(c, http.StatusOK, name, title, data)
}

func htmlStatus(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = I18nWeb(c, title)
	data["user"] = session.GetLoginUser(c)
	data["flashes"] = session.Flashes(c)
	data["request_uri"] = c.Request.RequestURI
	c.HTML(status, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver":  config.GetVersion(),
		"app_name": config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

func addFlash(c *gin.Context, key string, params ...string) {
	if err := session.AddFlash(c, I18nWeb(c, key, params...)); err != nil {
		logger.Warning("Unable to save flash message:", err)
	}
}

// flashRedirect queues a localized flash message and redirects with 303 so
// the browser follows up with a GET.
func flashRedirect(c *gin.Context, location string, key string, params ...string) {
	addFlash(c, key, params...)
	c.Redirect(http.StatusSeeOther, location)
}

func notFound(c *gin.Context) {
	htmlStatus(c, http.StatusNotFound, "error.html", "pages.error.notFound", gin.H{
		"message": I18nWeb(c, "pages.error.notFound"),
	})
}

// NotFound renders the 404 page. Used as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	notFound(c)
}

func serverError(c *gin.Context, err error) {
	logger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	htmlStatus(c, http.StatusInternalServerError, "error.html", "pages.error.serverError", gin.H{
		"message": I18nWeb(c, "pages.error.serverError"),
	})
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}
