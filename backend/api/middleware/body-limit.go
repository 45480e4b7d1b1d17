package middleware

import (
	"net/http"

	"pngdrop/backend/common"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at limit bytes; 0 or less disables the cap.
// Declared lengths over the limit are refused before any body is read.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			common.RespText(c, http.StatusRequestEntityTooLarge, common.MsgFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
