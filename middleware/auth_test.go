package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymflow/models"
	"gymflow/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		orgCtx, ok := OrgContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no context"})
			return
		}
		c.JSON(http.StatusOK, orgCtx)
	})
	return r
}

func TestJWTAuthMiddlewareRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken(models.OrganizationContext{
		UserID:         "u1",
		OrganizationID: "org1",
		Role:           models.RoleStaff,
	}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"organization_id":"org1"`)
	assert.Contains(t, w.Body.String(), `"role":"staff"`)
}

func TestJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	authTestRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(models.OrganizationContext{
		UserID:         "u1",
		OrganizationID: "org1",
		Role:           models.RoleClient,
	}, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authTestRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
