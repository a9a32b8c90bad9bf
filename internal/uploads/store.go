// Package uploads holds the in-memory lists of files a user has staged
// for the image and audio workflows. Files live only for the lifetime of
// the process; nothing is persisted.
package uploads

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wkyin9211-crypto/mediarelay/internal/models"
)

// Kind selects which list a file belongs to. Transcription uploads are
// audio files but live in their own list so the two audio workflows do
// not interfere.
type Kind string

const (
	KindImage         Kind = "image"
	KindAudio         Kind = "audio"
	KindTranscription Kind = "transcription"
)

// ParseKind maps a route parameter to a Kind.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindImage:
		return KindImage, nil
	case KindAudio:
		return KindAudio, nil
	case KindTranscription:
		return KindTranscription, nil
	default:
		return "", fmt.Errorf("unknown upload kind %q", raw)
	}
}

var (
	// ErrFileTooLarge rejects uploads over the per-kind size cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType rejects MIME types outside the allowlist.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrNotFound reports a removal of an id the list does not hold.
	ErrNotFound = errors.New("upload not found")
)

// Limits captures the validation policy for one media class.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// Store is safe for concurrent use by multiple request handlers.
type Store struct {
	mu    sync.RWMutex
	lists map[Kind][]models.UploadedFile
	image Limits
	audio Limits
}

// NewStore builds a store enforcing the given image and audio policies.
// Transcription uploads share the audio policy.
func NewStore(image, audio Limits) *Store {
	return &Store{
		lists: make(map[Kind][]models.UploadedFile),
		image: image,
		audio: audio,
	}
}

// Add validates and stages one file, returning its descriptor. On a
// validation failure nothing is stored and no request should be sent.
func (s *Store) Add(kind Kind, name, contentType string, data []byte) (models.UploadedFile, error) {
	limits := s.limitsFor(kind)
	if int64(len(data)) > limits.MaxBytes {
		return models.UploadedFile{}, fmt.Errorf("%w: %s is %s, limit %s",
			ErrFileTooLarge, name, FormatSize(int64(len(data))), FormatSize(limits.MaxBytes))
	}
	if !typeAllowed(contentType, limits.AllowedTypes) {
		return models.UploadedFile{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	file := models.UploadedFile{
		ID:          string(kind) + "-" + uuid.NewString(),
		Name:        name,
		SizeBytes:   int64(len(data)),
		ContentType: contentType,
		Data:        data,
	}
	s.mu.Lock()
	s.lists[kind] = append(s.lists[kind], file)
	s.mu.Unlock()
	return file, nil
}

// List returns a snapshot of the staged files in upload order.
func (s *Store) List(kind Kind) []models.UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UploadedFile, len(s.lists[kind]))
	copy(out, s.lists[kind])
	return out
}

// Count avoids copying file payloads when only the length matters.
func (s *Store) Count(kind Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists[kind])
}

// Remove deletes one staged file by id.
func (s *Store) Remove(kind Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[kind]
	for i, f := range list {
		if f.ID == id {
			s.lists[kind] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Clear drops every staged file of one kind.
func (s *Store) Clear(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, kind)
}

func (s *Store) limitsFor(kind Kind) Limits {
	if kind == KindImage {
		return s.image
	}
	return s.audio
}

func typeAllowed(contentType string, allowed []string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range allowed {
		if ct == t {
			return true
		}
	}
	return false
}

// FormatSize renders a byte count with 1024-based units, e.g. "9.5 MB".
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
