package uploads

import (
	"bytes"
	"errors"
	"testing"
)

func testStore() *Store {
	return NewStore(
		Limits{MaxBytes: 10 << 20, AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"}},
		Limits{MaxBytes: 50 << 20, AllowedTypes: []string{"audio/mpeg", "audio/wav", "audio/flac"}},
	)
}

func TestStoreAcceptsValidImage(t *testing.T) {
	s := testStore()
	payload := bytes.Repeat([]byte{0xff}, 9<<20)
	file, err := s.Add(KindImage, "photo.jpg", "image/jpeg", payload)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if file.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", file.SizeBytes)
	}
	if file.ID == "" {
		t.Fatal("expected generated id")
	}
	if got := s.Count(KindImage); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestStoreRejectsOversizedAudio(t *testing.T) {
	s := testStore()
	payload := bytes.Repeat([]byte{0x00}, 51<<20)
	_, err := s.Add(KindAudio, "big.wav", "audio/wav", payload)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if got := s.Count(KindAudio); got != 0 {
		t.Fatalf("rejected file must not be stored, count = %d", got)
	}
}

func TestStoreRejectsUnlistedTypeRegardlessOfSize(t *testing.T) {
	s := testStore()
	_, err := s.Add(KindImage, "tiny.bmp", "image/bmp", []byte{0x42})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestStoreTranscriptionUsesAudioPolicy(t *testing.T) {
	s := testStore()
	if _, err := s.Add(KindTranscription, "a.flac", "audio/flac", []byte{1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := s.Add(KindTranscription, "a.jpg", "image/jpeg", []byte{1}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("image type must not pass audio policy, got %v", err)
	}
	if got := s.Count(KindAudio); got != 0 {
		t.Fatalf("transcription uploads must not leak into the audio list, count = %d", got)
	}
}

func TestStoreRemove(t *testing.T) {
	s := testStore()
	f1, _ := s.Add(KindImage, "one.png", "image/png", []byte{1})
	f2, _ := s.Add(KindImage, "two.png", "image/png", []byte{2})

	if err := s.Remove(KindImage, f1.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	left := s.List(KindImage)
	if len(left) != 1 || left[0].ID != f2.ID {
		t.Fatalf("unexpected remaining files: %+v", left)
	}
	if err := s.Remove(KindImage, f1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestStoreListIsSnapshot(t *testing.T) {
	s := testStore()
	s.Add(KindAudio, "a.wav", "audio/wav", []byte{1})
	snap := s.List(KindAudio)
	s.Clear(KindAudio)
	if len(snap) != 1 {
		t.Fatalf("snapshot mutated by Clear, len = %d", len(snap))
	}
	if got := s.Count(KindAudio); got != 0 {
		t.Fatalf("Clear left %d files", got)
	}
}

func TestParseKind(t *testing.T) {
	for raw, want := range map[string]Kind{"image": KindImage, " AUDIO ": KindAudio, "transcription": KindTranscription} {
		got, err := ParseKind(raw)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := ParseKind("video"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:      "512 B",
		10 << 20: "10.0 MB",
		1536:     "1.5 KB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Fatalf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
