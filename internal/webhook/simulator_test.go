package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wkyin9211-crypto/mediarelay/internal/config"
	"github.com/wkyin9211-crypto/mediarelay/internal/models"
	"github.com/wkyin9211-crypto/mediarelay/internal/transcript"
)

func zeroDelaySimulator() *Simulator {
	return NewSimulator(config.SimulatorConfig{})
}

func TestSimulatorVoices(t *testing.T) {
	env := zeroDelaySimulator().Invoke(context.Background(), OpVoices, Request{})
	require.True(t, env.Success)

	voices, ok := env.Data.([]models.Voice)
	require.True(t, ok)
	require.Len(t, voices, 5)
	require.Equal(t, "voice1", voices[0].ID)
	for _, v := range voices {
		require.NotEmpty(t, v.Name)
		require.NotEmpty(t, v.Type)
		require.NotEmpty(t, v.PreviewURL)
	}
}

func TestSimulatorImageOperations(t *testing.T) {
	for _, op := range []Operation{OpGenerateImage, OpFixImage} {
		env := zeroDelaySimulator().Invoke(context.Background(), op, Request{})
		require.True(t, env.Success, "op %s", op)
		data, ok := env.Data.(models.ImageResult)
		require.True(t, ok)
		require.Contains(t, data.URL, "picsum.photos")
		require.Contains(t, data.ID, "img-")
	}
}

func TestSimulatorSynthesis(t *testing.T) {
	env := zeroDelaySimulator().Invoke(context.Background(), OpSynthesizeAudio, Request{})
	require.True(t, env.Success)
	data, ok := env.Data.(models.AudioResult)
	require.True(t, ok)
	require.Equal(t, "00:03", data.Duration)
}

func TestSimulatorTranscriptionNormalizes(t *testing.T) {
	req := Request{Form: &Form{Files: []FilePart{{Field: "files[]", Name: "meeting.mp3"}}}}
	env := zeroDelaySimulator().Invoke(context.Background(), OpTranscribeAudio, req)
	require.True(t, env.Success)

	// The fixture must round-trip through the normalizer like a real
	// backend payload would.
	recs := transcript.Normalize(env.Data)
	require.Len(t, recs, 1)
	require.Equal(t, "zh", recs[0].Language)
	require.Equal(t, "00:05", recs[0].Duration)
	require.NotEmpty(t, recs[0].Text)

	data := env.Data.(map[string]any)
	batch := data["transcriptions"].([]any)
	entry := batch[0].(map[string]any)
	require.Equal(t, "meeting.mp3", entry["filename"])
}

func TestSimulatorUnknownOperation(t *testing.T) {
	env := zeroDelaySimulator().Invoke(context.Background(), Operation("mint-nft"), Request{})
	require.False(t, env.Success)
	require.Contains(t, env.Error, "unknown operation")
}

func TestSimulatorHonorsContextDuringDelay(t *testing.T) {
	sim := NewSimulator(config.SimulatorConfig{DelayMin: time.Minute, DelayMax: 2 * time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	env := sim.Invoke(ctx, OpVoices, Request{})
	require.False(t, env.Success)
	require.Less(t, time.Since(start), time.Second)
}
