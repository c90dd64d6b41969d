package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aadhaarqms/internal/auth"
	"aadhaarqms/internal/model"
)

const principalKey = "principal"

// Auth resolves the bearer token into a Principal. A missing token is 401;
// an invalid or expired one is 403.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "access denied, no token provided",
			})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}
		p, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAdmin guards the admin route group.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(model.RoleAdmin, "admin privileges required")
}

// RequireUser guards citizen-only routes.
func RequireUser() gin.HandlerFunc {
	return requireRole(model.RoleUser, "user privileges required")
}

func requireRole(role, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "access denied, " + msg,
			})
			return
		}
		c.Next()
	}
}

// Principal returns the caller set by Auth. Zero value on unauthenticated
// routes.
func Principal(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}
