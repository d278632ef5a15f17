package server

import (
	"strings"

	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/gin-gonic/gin"
)

const userHeader = "X-User-Id"

// IdentityMiddleware propagates the caller identity from the gateway header
// into the request context. Authentication itself happens upstream.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userHeader))
		if userID != "" {
			ctx := usercontext.WithUserID(c.Request.Context(), userID)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// UserRequired gates endpoints that act on behalf of a user.
func (s *Server) UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := usercontext.UserIDFromContext(c.Request.Context()); !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
