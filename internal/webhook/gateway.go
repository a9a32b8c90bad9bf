// Package webhook forwards relay operations to externally configured
// endpoints and wraps every outcome in a uniform envelope. When an
// operation has no usable endpoint the call is served by a local
// simulator so the rest of the system stays exercisable without a
// backend.
package webhook

import "context"

// Operation names a logical webhook destination.
type Operation string

const (
	OpGenerateImage   Operation = "generate-image"
	OpFixImage        Operation = "fix-image"
	OpSynthesizeAudio Operation = "synthesize-audio"
	OpTranscribeAudio Operation = "transcribe-audio"
	OpVoices          Operation = "voices"
)

// FilePart is one named file in a multipart request.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Form describes a multipart/form-data body.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

// Request carries either a JSON body or a multipart form, never both.
type Request struct {
	JSON any
	Form *Form
}

// Envelope is the uniform result consumed by handlers: success with data,
// or failure with a message. Malformed upstream payloads are not failures;
// Data simply carries whatever could be decoded.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds a failed envelope.
func Failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// Gateway performs one webhook call. Implementations never return an
// error; transport problems are folded into the envelope.
type Gateway interface {
	Invoke(ctx context.Context, op Operation, req Request) Envelope
}
