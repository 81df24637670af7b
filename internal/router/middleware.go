package router

import (
	"net/http"

	"synapse-go/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// UserLoaderMiddleware checks for a userID in the session. If found, it
// loads the user from the database and adds it to the context. This ensures
// we don't have "zombie" sessions for users who no longer exist.
func UserLoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("userID").(uint)
		if !ok {
			// No user ID in session, proceed as a guest.
			c.Next()
			return
		}

		user, err := repository.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// User ID from session is invalid (user was deleted, etc.)
			// Clear the bad session and treat as a guest.
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// AuthRequired rejects requests that did not resolve to a valid user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("userID"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
