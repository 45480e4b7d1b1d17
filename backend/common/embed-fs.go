package common

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/static"
)

// Credit: https://github.com/gin-contrib/static/issues/19

type embedFileSystem struct {
	http.FileSystem
}

// Exists mirrors static.LocalFile: the request path is taken relative to the
// mount prefix and a directory only counts when it holds index.html.
func (e embedFileSystem) Exists(prefix string, filepath string) bool {
	p := strings.TrimPrefix(filepath, prefix)
	if len(p) == len(filepath) && prefix != "" {
		return false
	}
	if p == "" {
		p = "/"
	}
	f, err := e.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	if stat.IsDir() {
		index, err := e.Open(path.Join(p, "index.html"))
		if err != nil {
			return false
		}
		_ = index.Close()
	}
	return true
}

func EmbedFolder(fsEmbed fs.FS, targetPath string) static.ServeFileSystem {
	efs, err := fs.Sub(fsEmbed, targetPath)
	if err != nil {
		panic(err)
	}
	return embedFileSystem{
		FileSystem: http.FS(efs),
	}
}
