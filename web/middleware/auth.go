// Package middleware provides gin middleware for resolving the current user,
// rate limiting credential endpoints and recording request metrics.
package middleware

import (
	"errors"

	"github.com/mhsanaei/mediahub/database/model"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/web/service"
	"github.com/mhsanaei/mediahub/web/session"

	"github.com/gin-gonic/gin"
)

// UserLoader fetches a user by id.
type UserLoader interface {
	GetUser(id int) (*model.User, error)
}

// CurrentUser loads the user referenced by the session cookie on every
// request. A session pointing at a user that no longer exists is cleared.
func CurrentUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := session.GetLoginUserId(c)
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetUser(id)
		switch {
		case err == nil:
			session.SetContextUser(c, user)
		case errors.Is(err, service.ErrUserNotFound):
			logger.Warningf("session references missing user %d, clearing", id)
			if err := session.ClearSession(c); err != nil {
				logger.Warning("Unable to clear session:", err)
			}
		default:
			logger.Error("load session user failed:", err)
		}
		c.Next()
	}
}
