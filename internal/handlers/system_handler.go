package handlers

import (
	"net/http"

	"agrisite/internal/database"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus is the health endpoint. Alongside liveness it returns
// the global registry figures shown in every page header.
func GetSystemStatus(c *gin.Context) {
	overview, err := database.GlobalOverview()
	if err != nil {
		// The service is still up even if the store is briefly unreachable
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "online",
		"stats":  overview,
	})
}
