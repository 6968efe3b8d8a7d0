package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gymflow/utils"
)

// ContextKeyOrg is the gin context key the parsed organization context is
// stored under.
const ContextKeyOrg = "orgContext"

// JWTAuthMiddleware validates the bearer token and stores the actor's
// organization context for downstream handlers.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		orgCtx, err := utils.ParseOrgContext(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextKeyOrg, orgCtx)
		c.Next()
	}
}
