package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GzipDecodeMiddleware decompresses gzipped request bodies
func GzipDecodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Content-Encoding") == "gzip" {
			gzipReader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			defer gzipReader.Close()

			// Replace the request body with the decompressed data
			c.Request.Body = io.NopCloser(gzipReader)
			c.Request.Header.Del("Content-Encoding")
			c.Request.ContentLength = -1
		}

		c.Next()
	}
}

type lazyGzipWriter struct {
	gin.ResponseWriter
	gzWriter           *gzip.Writer
	compressionDecided bool
	enableCompression  bool
}

// skipCompression reports content that is already compressed or streamed
func skipCompression(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.Contains(contentType, "text/event-stream") ||
		strings.Contains(contentType, "application/octet-stream")
}

// tryInitCompression runs on the first body write. gin records the status
// before renderers set Content-Type, so deciding any earlier would miss it.
func (w *lazyGzipWriter) tryInitCompression() {
	if w.compressionDecided {
		return
	}
	w.compressionDecided = true

	status := w.ResponseWriter.Status()
	if status == http.StatusNoContent || status == http.StatusNotModified ||
		status == http.StatusPartialContent || status < http.StatusOK {
		return
	}
	if w.Header().Get("Content-Encoding") != "" || skipCompression(w.Header().Get("Content-Type")) {
		return
	}

	w.enableCompression = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Vary", "Accept-Encoding")
	// the length set upstream is for the uncompressed body
	w.Header().Del("Content-Length")
	w.gzWriter, _ = gzip.NewWriterLevel(w.ResponseWriter, gzip.DefaultCompression)
}

func (w *lazyGzipWriter) Write(data []byte) (int, error) {
	w.tryInitCompression()

	if !w.enableCompression {
		return w.ResponseWriter.Write(data)
	}
	return w.gzWriter.Write(data)
}

func (w *lazyGzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Close flushes the gzip stream, if one was started
func (w *lazyGzipWriter) Close() error {
	if w.gzWriter != nil {
		return w.gzWriter.Close()
	}
	return nil
}

// GzipEncodeMiddleware compresses response bodies with gzip. Images are
// passed through untouched.
func GzipEncodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		lgw := &lazyGzipWriter{
			ResponseWriter: c.Writer,
		}
		c.Writer = lgw

		defer func() {
			lgw.Close()
			c.Writer = lgw.ResponseWriter
		}()

		c.Next()
	}
}
