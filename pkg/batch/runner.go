// Package batch runs the per-file crop pipeline over a directory.
//
// Each file is inspected, resolved to a single geometry.Transform, decoded,
// transformed and written to the output directory under its own name.
// Files are independent jobs on a bounded worker pool. A failure in one
// file is recorded in its Result and never stops the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/image-cropper/internal/utils"
	"github.com/menta2k/image-cropper/pkg/analyzer"
	"github.com/menta2k/image-cropper/pkg/cropper"
	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/processing"
	"github.com/menta2k/image-cropper/pkg/types"
)

// ReasonUnsupported is the skip reason for files outside the extension allow-list
const ReasonUnsupported = "unsupported extension"

// ErrBatchFailed is returned by Report.Err in strict mode when any file failed
var ErrBatchFailed = errors.New("one or more files failed")

// Inspector reads natural image dimensions
type Inspector interface {
	Inspect(path string) (types.ImageInfo, error)
}

// Transformer applies a resolved transform to a decoded image
type Transformer interface {
	Apply(img image.Image, t geometry.Transform) (image.Image, error)
}

// Codec decodes source files and writes results
type Codec interface {
	LoadImage(path string) (image.Image, error)
	SaveImage(img image.Image, path string) error
}

// Config holds the read-only settings shared by all jobs
type Config struct {
	InputDir  string
	OutputDir string
	Geometry  geometry.Options

	// Workers bounds concurrent jobs; 0 means GOMAXPROCS
	Workers int
	// FileTimeout bounds a single file, checked between pipeline stages; 0 disables
	FileTimeout time.Duration

	Quality  int
	Lossless bool
}

// Runner processes one directory
type Runner struct {
	cfg         Config
	inspector   Inspector
	transformer Transformer
	codec       Codec
	logger      *zap.Logger
}

// New creates a Runner backed by the default analyzer, cropper and processor
func New(cfg Config) *Runner {
	codec := processing.NewProcessor()
	if cfg.Quality > 0 {
		codec.Quality = cfg.Quality
	}
	codec.Lossless = cfg.Lossless
	return NewWithComponents(cfg, analyzer.New(), cropper.New(), codec)
}

// NewWithComponents creates a Runner with custom collaborators
func NewWithComponents(cfg Config, inspector Inspector, transformer Transformer, codec Codec) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		cfg:         cfg,
		inspector:   inspector,
		transformer: transformer,
		codec:       codec,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger used for per-file and summary lines
func (r *Runner) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Run processes every entry of the input directory and waits for all jobs.
// The returned error is only set when the batch could not start.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	if err := utils.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %v", types.ErrIO, err)
	}
	names, err := utils.ListEntries(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read input directory: %v", types.ErrIO, err)
	}

	r.logger.Info("batch started",
		zap.String("input", r.cfg.InputDir),
		zap.String("output", r.cfg.OutputDir),
		zap.Int("entries", len(names)),
		zap.Int("workers", r.cfg.Workers))

	results := make([]types.Result, len(names))
	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Workers)
	for i, name := range names {
		if !utils.IsImageFile(name) {
			results[i] = types.Skipped(name, ReasonUnsupported)
			r.logResult(results[i])
			continue
		}
		i, name := i, name
		g.Go(func() error {
			results[i] = r.processFile(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	report := newReport(results, time.Since(start))
	r.logger.Info("batch finished",
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.String("written", utils.FormatFileSize(report.Bytes)),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func (r *Runner) processFile(ctx context.Context, name string) (res types.Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = types.Failed(name, fmt.Errorf("panic: %v", p))
		}
		res.Elapsed = time.Since(start)
		r.logResult(res)
	}()

	if r.cfg.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.FileTimeout)
		defer cancel()
	}

	t, size, err := r.transformFile(ctx, name)
	if err != nil {
		return types.Failed(name, err)
	}
	return types.Result{
		Name:      name,
		Status:    types.StatusProcessed,
		Transform: t.String(),
		Bytes:     size,
	}
}

func (r *Runner) transformFile(ctx context.Context, name string) (geometry.Transform, int64, error) {
	var t geometry.Transform
	src := filepath.Join(r.cfg.InputDir, name)
	dst := filepath.Join(r.cfg.OutputDir, name)

	if err := ctx.Err(); err != nil {
		return t, 0, err
	}
	info, err := r.inspector.Inspect(src)
	if err != nil {
		return t, 0, err
	}
	t, err = geometry.Resolve(r.cfg.Geometry, info.Width, info.Height)
	if err != nil {
		return t, 0, err
	}

	if err := ctx.Err(); err != nil {
		return t, 0, err
	}
	img, err := r.codec.LoadImage(src)
	if err != nil {
		return t, 0, err
	}
	out, err := r.transformer.Apply(img, t)
	if err != nil {
		return t, 0, err
	}

	if err := ctx.Err(); err != nil {
		return t, 0, err
	}
	if err := r.codec.SaveImage(out, dst); err != nil {
		return t, 0, err
	}

	var size int64
	if fi, err := os.Stat(dst); err == nil {
		size = fi.Size()
	}
	return t, size, nil
}

func (r *Runner) logResult(res types.Result) {
	switch res.Status {
	case types.StatusSkipped:
		r.logger.Info("skipping non-image file", zap.String("file", res.Name), zap.String("reason", res.Reason))
	case types.StatusProcessed:
		r.logger.Info("processed",
			zap.String("file", res.Name),
			zap.String("transform", res.Transform),
			zap.Duration("elapsed", res.Elapsed))
	case types.StatusFailed:
		r.logger.Error("error processing file", zap.String("file", res.Name), zap.Error(res.Err))
	}
}
