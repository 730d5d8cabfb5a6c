package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"groupplan/internal/auth"
)

// UserIDKey is the gin context key the authenticated user id is stored
// under.
const UserIDKey = "user_id"

// SessionCookie carries the signed session token. httpOnly and strict
// same-site; the 7-day expiry matches auth.SessionTTL.
const SessionCookie = "session"

// SessionAuth reads the session cookie, verifies the token and puts
// the user id into the request context.
func SessionAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authenticated",
			})
			return
		}

		userID, err := auth.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid session",
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID pulls the authenticated user id out of the gin context.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
