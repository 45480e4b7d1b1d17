package model

import "time"

// StoredFile is one uploaded file in the store directory
type StoredFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// UploadLink is the response body of a successful upload
type UploadLink struct {
	Link string `json:"link"`
}
