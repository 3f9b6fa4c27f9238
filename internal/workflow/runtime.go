package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/stapler/internal/config"
	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/provider"
	"github.com/JaimeStill/stapler/pkg/imaging"
	"github.com/JaimeStill/stapler/pkg/rasterize"
)

// Builder produces the page manifest for a folder.
type Builder interface {
	Build(ctx context.Context, dir string) (*manifest.Manifest, error)
}

// Composer returns the full system prompt sent with each sequencing call.
type Composer interface {
	Compose(ctx context.Context) (string, error)
}

// Runtime bundles the dependencies that workflow nodes require.
type Runtime struct {
	Builder  Builder
	Provider provider.Provider
	Prompts  Composer
	Logger   *slog.Logger
}

// NewRuntime assembles the preprocessing pipeline and sequencing provider
// described by cfg. prompts supplies the system prompt for each run.
func NewRuntime(cfg *config.Config, prompts Composer, logger *slog.Logger) (*Runtime, error) {
	rasterizer, err := rasterize.New(cfg.Preprocess.Rasterize(), nil, logger)
	if err != nil {
		return nil, fmt.Errorf("rasterizer init failed: %w", err)
	}

	builder := manifest.New(
		cfg.Preprocess.Manifest(),
		rasterizer,
		imaging.NewEnhancer(cfg.Preprocess.Enhance()),
		logger,
	)

	return &Runtime{
		Builder:  builder,
		Provider: provider.NewAgent(cfg.Agent, logger),
		Prompts:  prompts,
		Logger:   logger.With("system", "workflow"),
	}, nil
}
