package common

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestEmbedFolder_Exists(t *testing.T) {
	fsys := fstest.MapFS{
		"web/index.html":      &fstest.MapFile{Data: []byte("<html></html>")},
		"web/empty/.keep":     &fstest.MapFile{},
		"web/assets/logo.svg": &fstest.MapFile{Data: []byte("<svg/>")},
	}
	folder := EmbedFolder(fsys, "web")

	assert.True(t, folder.Exists("/diffusion", "/diffusion"))
	assert.True(t, folder.Exists("/diffusion", "/diffusion/"))
	assert.True(t, folder.Exists("/diffusion", "/diffusion/assets/logo.svg"))
	assert.True(t, folder.Exists("/", "/"))

	assert.False(t, folder.Exists("/diffusion", "/other/"), "paths outside the prefix")
	assert.False(t, folder.Exists("/diffusion", "/diffusion/missing.png"))
	assert.False(t, folder.Exists("/diffusion", "/diffusion/empty/"), "directories without index.html")
}
