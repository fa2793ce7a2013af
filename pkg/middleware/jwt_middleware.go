package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mem "tripcanvas/pkg/memcache"
	"tripcanvas/pkg/utils"
)

const (
	ContextAccountID    = "account_id"
	ContextTokenID      = "token_id"
	ContextTokenExpires = "token_expires"
)

// JWTAuthMiddleware accepts "Authorization: Bearer <token>" or the session cookie.
func JWTAuthMiddleware(jwt *utils.JWTManager, revoked mem.RevokedTokenStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header or cookie missing")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "Session store unavailable")
			c.Abort()
			return
		}
		if isRevoked {
			utils.RespondError(c, http.StatusUnauthorized, "Token is logged out")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.UserID)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpires, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
