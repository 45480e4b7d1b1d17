package common

import (
	"time"
)

var StartTime = time.Now().Unix() // unit: second
var Version = "v0.0.1"            // this hard coding will be replaced automatically when building, no need to manually change
var SystemName = "pngdrop"

const (
	DefaultPrefix               = "/diffusion"
	DefaultPort                 = 8000
	DefaultMaxUploadBytes int64 = 32 << 20
)

// Naming schemes for stored files
const (
	NamingTimestamp = "timestamp"
	NamingUUID      = "uuid"
)

// IndexEmbedded serves the index page bundled into the binary
const IndexEmbedded = "embedded"

// RandomFileName is the route segment that picks a random stored file.
// Neither naming scheme can produce it.
const RandomFileName = "random.png"

// UploadFormField is the multipart field holding the uploaded file
const UploadFormField = "file"

// AcceptedContentType is the only part content type an upload may declare
const AcceptedContentType = "image/png"

// Plain-text bodies returned for failed requests
const (
	MsgFileMissing     = "file is missing"
	MsgUnsupportedType = "file must be image/png"
	MsgFileTooLarge    = "file is too large"
	MsgNotFound        = "file not found"
	MsgStoreEmpty      = "store is empty"
	MsgInternalError   = "internal server error"
)

// All durations below are server defaults, overridable by the config file
var (
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 5 * time.Minute
	WriteTimeout      = 5 * time.Minute
	IdleTimeout       = 2 * time.Minute
	ShutdownTimeout   = 15 * time.Second
)
