package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"pngdrop/backend/common"
	"pngdrop/backend/library/store"
	"pngdrop/backend/model"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingFile     = errors.New("file is missing")
	ErrUnsupportedType = errors.New("file must be image/png")
	ErrTooLarge        = errors.New("file is too large")
)

const (
	cacheControlStored = "public, max-age=31536000, immutable"
	cacheControlRandom = "no-store"
)

// UploadHandler serves the upload and retrieval endpoints of one store
type UploadHandler struct {
	store  *store.Store
	prefix string
	host   string
}

func NewUploadHandler(st *store.Store, cfg *common.Config) *UploadHandler {
	return &UploadHandler{
		store:  st,
		prefix: common.NormalizePrefix(cfg.Prefix),
		host:   cfg.Host,
	}
}

// Link builds the URL a stored file is served under
func (h *UploadHandler) Link(name string) string {
	return h.host + h.prefix + "/" + url.PathEscape(name)
}

// Upload stores the multipart "file" part and answers with its link
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(common.UploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(c, ErrTooLarge)
			return
		}
		// also covers bodies that are not multipart at all
		respondError(c, fmt.Errorf("%w: %v", ErrMissingFile, err))
		return
	}
	if fileHeader.Header.Get("Content-Type") != common.AcceptedContentType {
		respondError(c, fmt.Errorf("%w: got %q", ErrUnsupportedType, fileHeader.Header.Get("Content-Type")))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open uploaded part: %w", err))
		return
	}
	defer src.Close()

	saved, err := h.store.Save(src)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SysLog(fmt.Sprintf("stored %s (%d bytes) from %s", saved.Name, saved.Size, c.ClientIP()))
	c.JSON(http.StatusOK, model.UploadLink{Link: h.Link(saved.Name)})
}

// Retrieve serves a stored file by name
func (h *UploadHandler) Retrieve(c *gin.Context) {
	h.serve(c, c.Param("name"), cacheControlStored)
}

// RetrieveRandom serves a uniformly random stored file
func (h *UploadHandler) RetrieveRandom(c *gin.Context) {
	picked, err := h.store.Random()
	if err != nil {
		respondError(c, err)
		return
	}
	h.serve(c, picked.Name, cacheControlRandom)
}

func (h *UploadHandler) serve(c *gin.Context, name string, cacheControl string) {
	f, info, err := h.store.Open(name)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(info.Name()))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", cacheControl)
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// respondError maps a request failure onto its status and plain-text body
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFile):
		common.RespText(c, http.StatusBadRequest, common.MsgFileMissing)
	case errors.Is(err, ErrUnsupportedType):
		common.RespText(c, http.StatusBadRequest, common.MsgUnsupportedType)
	case errors.Is(err, ErrTooLarge):
		common.RespText(c, http.StatusRequestEntityTooLarge, common.MsgFileTooLarge)
	case errors.Is(err, store.ErrPathTraversal):
		common.SysLog(fmt.Sprintf("refused %s from %s: %v", c.Request.URL.Path, c.ClientIP(), err))
		common.RespText(c, http.StatusNotFound, common.MsgNotFound)
	case errors.Is(err, store.ErrNotFound):
		common.RespText(c, http.StatusNotFound, common.MsgNotFound)
	case errors.Is(err, store.ErrEmptyStore):
		common.RespText(c, http.StatusNotFound, common.MsgStoreEmpty)
	default:
		common.SysError(fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
		common.RespText(c, http.StatusInternalServerError, common.MsgInternalError)
	}
}
