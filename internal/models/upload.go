package models

// UploadedFile stores a validated user upload in-memory so it can be
// re-read every time a webhook request is assembled.
type UploadedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
