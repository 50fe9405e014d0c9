// Package controller provides the HTTP handlers of mediahub: the public
// listing, account pages, and media upload, deletion, comments and ratings.
package controller

import (
	"net/http"
	"net/url"

	"github.com/mhsanaei/mediahub/web/locale"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin redirects anonymous visitors to the login page. GET requests
// carry their path in "next" so the user lands back there after login.
func (a *BaseController) checkLogin(c *gin.Context) {
	if session.IsLogin(c) {
		c.Next()
		return
	}
	addFlash(c, "toasts.loginRequired")
	target := "/login"
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// I18nWeb retrieves a localized message for the request's language.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.Localize(locale.FromContext(c), name, params...)
}
