package models

// Voice describes one synthesis voice offered by the backend.
type Voice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	PreviewURL string `json:"previewUrl"`
}

// ImageResult is the payload shape expected from image webhooks.
type ImageResult struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// AudioResult is the payload shape expected from the synthesis webhook.
type AudioResult struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Duration string `json:"duration,omitempty"`
}
