package webhook

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/wkyin9211-crypto/mediarelay/internal/config"
	"github.com/wkyin9211-crypto/mediarelay/internal/models"
)

const (
	simPreviewURL = "https://www.soundjay.com/misc/sounds/bell-ringing-05.wav"
	simSampleText = "这是一段示例转录文本，用于联调测试。"
)

// Simulator serves canned responses after a randomized delay, standing in
// for a backend that has not been configured yet. Construct it with a
// zero delay window for deterministic tests.
type Simulator struct {
	delayMin time.Duration
	delayMax time.Duration
}

// NewSimulator builds a simulator with the configured delay window.
func NewSimulator(cfg config.SimulatorConfig) *Simulator {
	return &Simulator{delayMin: cfg.DelayMin, delayMax: cfg.DelayMax}
}

// Invoke waits out the simulated latency and returns the fixture for the
// operation.
func (s *Simulator) Invoke(ctx context.Context, op Operation, req Request) Envelope {
	if err := s.wait(ctx); err != nil {
		return Failure(err.Error())
	}

	now := time.Now().UnixMilli()
	switch op {
	case OpVoices:
		return Envelope{Success: true, Data: simulatedVoices()}
	case OpGenerateImage, OpFixImage:
		return Envelope{Success: true, Data: models.ImageResult{
			URL: fmt.Sprintf("https://picsum.photos/512/512?random=%d", now),
			ID:  fmt.Sprintf("img-%d", now),
		}}
	case OpSynthesizeAudio:
		return Envelope{Success: true, Data: models.AudioResult{
			URL:      simPreviewURL,
			ID:       fmt.Sprintf("audio-%d", now),
			Duration: "00:03",
		}}
	case OpTranscribeAudio:
		return Envelope{Success: true, Data: map[string]any{
			"transcriptions": []any{
				map[string]any{
					"id":       fmt.Sprintf("tr-%d", now),
					"filename": firstFilename(req, "audio.wav"),
					"language": "zh",
					"duration": "00:05",
					"text":     simSampleText,
				},
			},
		}}
	default:
		return Failure("unknown operation " + string(op))
	}
}

func (s *Simulator) wait(ctx context.Context) error {
	d := s.delayMin
	if span := s.delayMax - s.delayMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func simulatedVoices() []models.Voice {
	return []models.Voice{
		{ID: "voice1", Name: "Sweet Female", Type: "female", PreviewURL: simPreviewURL},
		{ID: "voice2", Name: "Deep Male", Type: "male", PreviewURL: simPreviewURL},
		{ID: "voice3", Name: "Child Voice", Type: "child", PreviewURL: simPreviewURL},
		{ID: "voice4", Name: "Elder Male", Type: "male", PreviewURL: simPreviewURL},
		{ID: "voice5", Name: "Gentle Female", Type: "female", PreviewURL: simPreviewURL},
	}
}

func firstFilename(req Request, fallback string) string {
	if req.Form != nil && len(req.Form.Files) > 0 && req.Form.Files[0].Name != "" {
		return req.Form.Files[0].Name
	}
	return fallback
}
