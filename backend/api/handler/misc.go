package handler

import (
	"net/http"
	"time"

	"pngdrop/backend/common"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and how many files the store holds
func (h *UploadHandler) Health(c *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		respondError(c, err)
		return
	}
	common.RespSuccess(c, gin.H{
		"files":   len(files),
		"version": common.Version,
		"uptime":  int64(time.Since(time.Unix(common.StartTime, 0)).Seconds()),
	})
}

// NotFound answers requests for the bare prefix when no index page is set
func NotFound(c *gin.Context) {
	common.RespText(c, http.StatusNotFound, common.MsgNotFound)
}
