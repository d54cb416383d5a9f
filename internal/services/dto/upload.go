package dto

// UploadResponse mirrors what the dashboard client reads after an upload.
type UploadResponse struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	// Public address of the file as configured for the storage backend.
	URL      string `json:"url,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size"`
}
