package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/dkeye/Chatter/internal/store"
)

const sessionUserKey = "username"

// CurrentUserMiddleware resolves the login session cookie to a
// *domain.User under the "user" context key. Connections without a
// valid session stay anonymous; the chat endpoint treats them as
// guests.
func CurrentUserMiddleware(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, _ := session.Get(sessionUserKey).(string)
		if username != "" {
			if user, err := users.UserByUsername(c.Request.Context(), username); err == nil {
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
