package route

import (
	"io/fs"

	"pngdrop/backend/api/handler"
	"pngdrop/backend/common"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// setWebRouter answers GET on the bare prefix: the index page when one is
// configured, 404 otherwise.
func setWebRouter(route *gin.Engine, cfg *common.Config, webFS fs.FS) {
	prefix := common.NormalizePrefix(cfg.Prefix)
	chain := []gin.HandlerFunc{handler.NotFound}
	if indexFS := indexFileSystem(cfg, webFS); indexFS != nil {
		mount := prefix
		if mount == "" {
			mount = "/"
		}
		chain = append([]gin.HandlerFunc{static.Serve(mount, indexFS)}, chain...)
	}

	webRouter := route.Group(prefix)
	webRouter.GET("", chain...)
	if prefix != "" {
		webRouter.GET("/", chain...)
	}
}

func indexFileSystem(cfg *common.Config, webFS fs.FS) static.ServeFileSystem {
	switch cfg.Index {
	case "":
		return nil
	case common.IndexEmbedded:
		if webFS == nil {
			return nil
		}
		return common.EmbedFolder(webFS, "web")
	default:
		return static.LocalFile(cfg.Index, false)
	}
}
