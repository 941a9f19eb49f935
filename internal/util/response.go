package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes the flat error body the web client expects: {"error": msg}.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}

// OK writes a success body with extra fields merged in.
func OK(c *gin.Context, httpStatus int, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(httpStatus, body)
}

// Success is OK with status 200.
func Success(c *gin.Context, extra gin.H) {
	OK(c, http.StatusOK, extra)
}
