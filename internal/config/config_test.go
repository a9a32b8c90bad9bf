package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.ListenAddr)
	require.Equal(t, 10, cfg.Uploads.MaxImageMB)
	require.Equal(t, 50, cfg.Uploads.MaxAudioMB)
	require.Contains(t, cfg.Uploads.AudioTypes, "audio/x-m4a")
	require.Equal(t, 600*time.Millisecond, cfg.Simulator.DelayMin)
	require.Equal(t, 1800*time.Millisecond, cfg.Simulator.DelayMax)
	require.True(t, cfg.Observability.EnableMetrics)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	content := `
server:
  listen_addr: ":9090"
webhooks:
  timeout: 10s
  endpoints:
    transcribe-audio: https://hooks.example.com/transcribe
    voices: not-a-url
simulator:
  delay_min: 1ms
  delay_max: 2ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(Options{ConfigFile: path, EnvFile: filepath.Join(dir, "absent.env")})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.ListenAddr)
	require.Equal(t, 10*time.Second, cfg.Webhooks.Timeout)

	url, ok := cfg.EndpointFor("transcribe-audio")
	require.True(t, ok)
	require.Equal(t, "https://hooks.example.com/transcribe", url)

	// Non-http mappings fall back to the simulator instead of failing.
	_, ok = cfg.EndpointFor("voices")
	require.False(t, ok)
	_, ok = cfg.EndpointFor("generate-image")
	require.False(t, ok)
}

func TestLoadRejectsUnknownOperation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webhooks:\n  endpoints:\n    mint-nft: https://x.test\n"), 0o644))

	_, err := Load(Options{ConfigFile: path, EnvFile: filepath.Join(dir, "absent.env")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown operation")
}

func TestValidateRejectsBadDelayWindow(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{ListenAddr: ":8080", BodyLimitMB: 1},
		Uploads: UploadsConfig{MaxImageMB: 1, MaxAudioMB: 1, ImageTypes: []string{"image/png"}, AudioTypes: []string{"audio/wav"}},
		Simulator: SimulatorConfig{
			DelayMin: 2 * time.Second,
			DelayMax: time.Second,
		},
	}
	require.Error(t, cfg.Validate())
}
