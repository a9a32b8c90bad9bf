package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wkyin9211-crypto/mediarelay/internal/config"
	"github.com/wkyin9211-crypto/mediarelay/internal/observability"
	"github.com/wkyin9211-crypto/mediarelay/internal/uploads"
	"github.com/wkyin9211-crypto/mediarelay/internal/webhook"
)

// Container aggregates runtime dependencies for handlers.
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Uploads       *uploads.Store
	Gateway       webhook.Gateway
	Observability *observability.Provider
}

// NewContainer builds the dependency graph: upload store sized from
// config, HTTP gateway with the simulator as its fallback, and optional
// observability.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store := uploads.NewStore(
		uploads.Limits{
			MaxBytes:     int64(cfg.Uploads.MaxImageMB) << 20,
			AllowedTypes: cfg.Uploads.ImageTypes,
		},
		uploads.Limits{
			MaxBytes:     int64(cfg.Uploads.MaxAudioMB) << 20,
			AllowedTypes: cfg.Uploads.AudioTypes,
		},
	)

	simulator := webhook.NewSimulator(cfg.Simulator)
	gateway := webhook.NewClient(cfg, simulator)

	obs, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Uploads:       store,
		Gateway:       gateway,
		Observability: obs,
	}, nil
}
