package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/models"
)

// OrgContext extracts the organization context stored by JWTAuthMiddleware.
func OrgContext(c *gin.Context) (models.OrganizationContext, bool) {
	value, exists := c.Get(ContextKeyOrg)
	if !exists {
		return models.OrganizationContext{}, false
	}
	orgCtx, ok := value.(models.OrganizationContext)
	return orgCtx, ok
}

// RequireRole rejects requests whose actor holds none of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgCtx, ok := OrgContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if orgCtx.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}
