package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/utils"
)

// Health returns the latest dependency health snapshot.
// GET /health
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
