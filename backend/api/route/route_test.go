package route

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"pngdrop/backend/common"
	"pngdrop/backend/library/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddedIndex = "<html><body>embedded index</body></html>"

func setupRouter(t *testing.T, mutate func(cfg *common.Config)) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := common.DefaultConfig()
	cfg.Destination = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	cfg.Prefix = common.NormalizePrefix(cfg.Prefix)

	namer, err := store.NamerFor(cfg.Naming)
	require.NoError(t, err)
	st, err := store.New(cfg.Destination, namer)
	require.NoError(t, err)

	webFS := fstest.MapFS{
		"web/index.html": &fstest.MapFile{Data: []byte(embeddedIndex)},
	}
	r := gin.New()
	SetRouter(r, cfg, st, webFS)
	return r, st
}

func pngUpload(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="img.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func do(r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadThenFetch_EndToEnd(t *testing.T) {
	r, _ := setupRouter(t, nil)
	payload := []byte("0123456789")

	body, contentType := pngUpload(t, payload)
	w := do(r, http.MethodPost, "/diffusion", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	link, ok := resp["link"]
	require.True(t, ok, "response should carry a link: %s", w.Body.String())

	get := do(r, http.MethodGet, link, nil, "")
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, payload, get.Body.Bytes())
}

func TestUpload_TrailingSlashPrefix(t *testing.T) {
	r, st := setupRouter(t, func(cfg *common.Config) { cfg.Prefix = "/diffusion/" })

	body, contentType := pngUpload(t, []byte("abc"))
	w := do(r, http.MethodPost, "/diffusion/", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^/diffusion/[^/]+\.png$`, resp["link"])

	files, err := st.List()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestUpload_RootPrefix(t *testing.T) {
	r, _ := setupRouter(t, func(cfg *common.Config) { cfg.Prefix = "/" })

	body, contentType := pngUpload(t, []byte("abc"))
	w := do(r, http.MethodPost, "/", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	get := do(r, http.MethodGet, resp["link"], nil, "")
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "abc", get.Body.String())
}

func TestUpload_TooLarge(t *testing.T) {
	r, st := setupRouter(t, func(cfg *common.Config) { cfg.MaxUploadBytes = 64 })

	body, contentType := pngUpload(t, bytes.Repeat([]byte("x"), 1024))
	w := do(r, http.MethodPost, "/diffusion", body, contentType)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file is too large", w.Body.String())

	files, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRandom_EmptyAndFilled(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w := do(r, http.MethodGet, "/diffusion/random.png", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "store is empty", w.Body.String())

	body, contentType := pngUpload(t, []byte("only"))
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/diffusion", body, contentType).Code)

	w = do(r, http.MethodGet, "/diffusion/random.png", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "only", w.Body.String())
}

func TestIndex_DisabledByDefault(t *testing.T) {
	r, _ := setupRouter(t, nil)

	for _, path := range []string{"/diffusion", "/diffusion/"} {
		w := do(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}

func TestIndex_Embedded(t *testing.T) {
	r, _ := setupRouter(t, func(cfg *common.Config) { cfg.Index = common.IndexEmbedded })

	for _, path := range []string{"/diffusion", "/diffusion/"} {
		w := do(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
		assert.Equal(t, embeddedIndex, w.Body.String(), "path %s", path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	}
}

func TestIndex_LocalDirectory(t *testing.T) {
	webDir := t.TempDir()
	page := "<html><body>gallery</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte(page), 0644))

	r, _ := setupRouter(t, func(cfg *common.Config) { cfg.Index = webDir })

	w := do(r, http.MethodGet, "/diffusion/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, page, w.Body.String())

	// stored files are still reachable next to the index
	body, contentType := pngUpload(t, []byte("png"))
	up := do(r, http.MethodPost, "/diffusion/", body, contentType)
	require.Equal(t, http.StatusOK, up.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(up.Body.Bytes(), &resp))
	assert.Equal(t, "png", do(r, http.MethodGet, resp["link"], nil, "").Body.String())
}

func TestIndex_LocalDirectoryWithoutIndexFile(t *testing.T) {
	r, _ := setupRouter(t, func(cfg *common.Config) { cfg.Index = t.TempDir() })

	w := do(r, http.MethodGet, "/diffusion", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w := do(r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"files":0`)
}
