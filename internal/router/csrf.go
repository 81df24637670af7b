package router

import (
	"errors"
	"net/http"

	"synapse-go/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenContextKey = "csrf_token"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

// CSRFProtection issues a per-session token and validates it on unsafe
// methods. Clients read the token from GET /api/csrf and echo it in the
// X-CSRF-Token header.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		var token string
		sessionToken := session.Get(csrfTokenSessionKey)
		if sessionToken == nil {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		} else {
			token = sessionToken.(string)
		}

		c.Set(csrfTokenContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			submitted := c.GetHeader(csrfTokenHeaderKey)
			if submitted == "" || submitted != token {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid CSRF token"})
				return
			}
		}

		c.Next()
	}
}
