// Package imagecropper batch-crops and resizes a directory of images.
//
// Every image in the input directory receives exactly one transform:
//
//   - margin crop, when any of the top/bottom/left/right margins is set
//   - fixed-size extract at an offset, for a size spec like 100x100@50,30
//   - contain resize into the size box, when keep-ratio is set (offset ignored)
//   - identity re-encode otherwise
//
// Margins take precedence over a size spec. Files with extensions other
// than jpg, jpeg, png and webp are skipped. Per-file failures are reported
// in the batch Report and never abort the batch.
//
// Basic usage:
//
//	cfg := config.Default()
//	cfg.Input, cfg.Output = "photos", "cropped"
//	cfg.Margins.Top = 20
//
//	c, err := imagecropper.New(cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := c.Run(context.Background())
//
// The package consists of these components:
//
// 1. Geometry (pkg/geometry): size spec parsing and transform resolution
// 2. Analyzer (pkg/analyzer): image header inspection
// 3. Cropper (pkg/cropper): extract and contain operations
// 4. Processing (pkg/processing): decode and atomic encode
// 5. Batch (pkg/batch): the per-directory worker pool
package imagecropper

import (
	"context"

	"go.uber.org/zap"

	"github.com/menta2k/image-cropper/pkg/batch"
	"github.com/menta2k/image-cropper/pkg/config"
)

// Version of the image cropper
const Version = "1.0.0"

// ImageCropper wires a validated configuration to a batch runner
type ImageCropper struct {
	config *config.Config
	runner *batch.Runner
}

// New validates cfg and builds the default pipeline
func New(cfg *config.Config, logger *zap.Logger) (*ImageCropper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := batch.New(BatchConfig(cfg))
	runner.SetLogger(logger)

	return &ImageCropper{config: cfg, runner: runner}, nil
}

// BatchConfig maps the application configuration to runner settings
func BatchConfig(cfg *config.Config) batch.Config {
	return batch.Config{
		InputDir:    cfg.Input,
		OutputDir:   cfg.Output,
		Geometry:    cfg.GeometryOptions(),
		Workers:     cfg.Options.Workers,
		FileTimeout: cfg.Options.FileTimeout,
		Quality:     cfg.Options.Quality,
		Lossless:    cfg.Options.Lossless,
	}
}

// Run processes the input directory. In strict mode any failed file turns
// into a batch.ErrBatchFailed error alongside the report.
func (c *ImageCropper) Run(ctx context.Context) (*batch.Report, error) {
	report, err := c.runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	return report, report.Err(c.config.Options.Strict)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
