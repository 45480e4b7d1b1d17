package route

import (
	"pngdrop/backend/api/handler"
	"pngdrop/backend/api/middleware"
	"pngdrop/backend/common"

	"github.com/gin-gonic/gin"
)

func SetUploadRouter(route *gin.Engine, cfg *common.Config, uploads *handler.UploadHandler) {
	prefix := common.NormalizePrefix(cfg.Prefix)
	uploadRouter := route.Group(prefix)
	{
		uploadRouter.POST("", middleware.BodyLimit(cfg.MaxUploadBytes), uploads.Upload)
		if prefix != "" {
			uploadRouter.POST("/", middleware.BodyLimit(cfg.MaxUploadBytes), uploads.Upload)
		}
		uploadRouter.GET("/"+common.RandomFileName, uploads.RetrieveRandom)
		uploadRouter.GET("/:name", uploads.Retrieve)
	}
}
