package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard format for API responses
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespSuccess responds with success and returns data
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespText aborts the request with a short plain-text body.
// Upload and retrieval failures are reported this way instead of as JSON.
func RespText(c *gin.Context, statusCode int, msg string) {
	c.Abort()
	c.String(statusCode, msg)
}
