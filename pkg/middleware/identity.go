package middleware

import (
	"crypto/subtle"
	"strings"

	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"

	"github.com/gin-gonic/gin"
)

// RequireUser trusts the user id injected by the upstream gateway.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(identity.HeaderUserID))
		if userID == "" {
			c.Error(errutil.Unauthorized("login required", nil))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), userID))
		c.Next()
	}
}

// RequireAdmin accepts requests carrying the configured admin key.
func RequireAdmin(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(identity.HeaderAdminKey)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.Error(errutil.Forbidden("admin access required", nil))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(identity.WithAdmin(c.Request.Context()))
		c.Next()
	}
}
