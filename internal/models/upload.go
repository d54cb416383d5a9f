package models

import (
	"strings"
	"time"
)

// StoredFile is the metadata kept for every file accepted by the upload relay.
type StoredFile struct {
	StoredName   string    `json:"storedName" db:"stored_name"`
	OriginalName string    `json:"originalName" db:"original_name"`
	MimeType     string    `json:"mimeType" db:"mime_type"`
	Size         int64     `json:"size" db:"size"`
	UploadedAt   time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// Category is the MIME top-level type, e.g. "image" for "image/png".
func (f StoredFile) Category() string {
	if f.MimeType == "" {
		return "unknown"
	}
	category, _, _ := strings.Cut(f.MimeType, "/")
	return category
}
