package middlewares

import (
	"net/http"

	"github.com/fnd-app/fnd-api/models"
	"github.com/fnd-app/fnd-api/utils"
	"github.com/gin-gonic/gin"
)

// RequirePermission gates a route on a permission tag. Must run after
// RequireAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !utils.HasPermission(user.Role, permission) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		ctx.Next()
	}
}

// RequireRole gates a route on an explicit role list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !allowed[user.Role] && user.Role != models.RoleSuperAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		ctx.Next()
	}
}
