package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/auth"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/web"
)

// ValidateToken checks the Authorization header, verifies the bearer token
// and puts the resolved identity into the request context.
func ValidateToken(codec *auth.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			web.AbortError(c, http.StatusUnauthorized, "unauthorized", "Authorization header is missing")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := codec.Verify(tokenString)
		if err != nil {
			// Expired vs malformed only matters for the log line.
			if errors.Is(err, auth.ErrTokenExpired) {
				log.Printf("middleware: rejected expired token")
			} else {
				log.Printf("middleware: rejected invalid token")
			}
			web.AbortError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only callers whose token carries the ADMIN role. Must
// run after ValidateToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "ADMIN" {
			web.AbortError(c, http.StatusForbidden, "forbidden", "Administrator role required")
			return
		}
		c.Next()
	}
}

// UserID extracts the authenticated user id set by ValidateToken.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
