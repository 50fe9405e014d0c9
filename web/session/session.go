// Package session stores the logged-in user id and flash messages in the
// signed session cookie, and carries the resolved user through the request.
package session

import (
	"net/http"

	"github.com/mhsanaei/mediahub/database/model"
	"github.com/mhsanaei/mediahub/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CookieName = "mediahub"

	loginUserKey   = "LOGIN_USER_ID"
	contextUserKey = "login_user"
)

func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUserKey, user.Id)
	c.Set(contextUserKey, user)
	return s.Save()
}

// GetLoginUserId returns the user id recorded in the session cookie.
func GetLoginUserId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	id, ok := s.Get(loginUserKey).(int)
	return id, ok && id > 0
}

// SetContextUser attaches the user resolved for this request.
func SetContextUser(c *gin.Context, user *model.User) {
	c.Set(contextUserKey, user)
}

// GetLoginUser returns the user resolved for this request, or nil.
func GetLoginUser(c *gin.Context) *model.User {
	if obj, ok := c.Get(contextUserKey); ok {
		if user, ok := obj.(*model.User); ok {
			return user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(contextUserKey, nil)
	return s.Save()
}

// AddFlash queues a message shown on the next rendered page.
func AddFlash(c *gin.Context, msg string) error {
	s := sessions.Default(c)
	s.AddFlash(msg)
	return s.Save()
}

// Flashes pops all queued messages.
func Flashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	if err := s.Save(); err != nil {
		logger.Warning("Unable to save session after reading flashes:", err)
	}
	return msgs
}
