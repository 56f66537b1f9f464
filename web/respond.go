package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Error writes the structured JSON error body used across the API.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":     code,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
		"status":    status,
	})
}

// AbortError is Error for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, status int, code, message string) {
	Error(c, status, code, message)
	c.Abort()
}
