package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ursmart/webapp/internal/app/session"
)

// RequireSession guards the routes that cannot do anything useful without a
// token (course detail, materials, chat) by bouncing back to the start
// screen.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
