package handlers

import (
	"net/http"
	"os"
	"strings"

	"agrisite/internal/ai"
	"agrisite/internal/report"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// Ask answers land-management questions. With no GEMINI_API_KEY configured
// it degrades to the standing recommendation list instead of failing.
func Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		c.JSON(http.StatusOK, gin.H{
			"reply":  "General recommendations:\n- " + strings.Join(report.Recommendations, "\n- "),
			"source": "static",
		})
		return
	}

	response, err := ai.RunAdvisor(req.Message, apiKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response, "source": "model"})
}
