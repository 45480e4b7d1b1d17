package route

import (
	"io/fs"

	"pngdrop/backend/api/handler"
	"pngdrop/backend/api/middleware"
	"pngdrop/backend/common"
	"pngdrop/backend/library/store"

	"github.com/gin-gonic/gin"
)

// SetRouter mounts every endpoint of the service on route. webFS holds the
// embedded "web" directory used when the index is set to "embedded".
func SetRouter(route *gin.Engine, cfg *common.Config, st *store.Store, webFS fs.FS) {
	route.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.EnableGzip {
		route.Use(middleware.GzipDecodeMiddleware()) // Decode gzipped requests
		route.Use(middleware.GzipEncodeMiddleware()) // Compress responses with gzip
	}

	uploads := handler.NewUploadHandler(st, cfg)
	route.GET("/healthz", uploads.Health)

	SetUploadRouter(route, cfg, uploads)
	setWebRouter(route, cfg, webFS)
}
