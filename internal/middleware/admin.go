package middleware

import (
	"net/http"

	"trixtech/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired rejects callers without the admin role. Must run after
// AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
