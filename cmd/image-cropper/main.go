package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	imagecropper "github.com/menta2k/image-cropper"
	"github.com/menta2k/image-cropper/pkg/config"
	"github.com/menta2k/image-cropper/pkg/geometry"
)

type flags struct {
	configFile string
	input      string
	output     string
	size       string
	keepRatio  bool
	top        int
	bottom     int
	left       int
	right      int

	workers     int
	quality     int
	lossless    bool
	strict      bool
	fileTimeout time.Duration
	verbose     bool
}

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:], os.Stderr))
}

// execute runs cmd with args and reports any error, including flag
// parse errors from cobra, on stderr. It returns the process exit code.
func execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&flags{})
}

func newRootCmdWith(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image-cropper -i <dir> -o <dir> [flags]",
		Short: "Batch crop or resize a directory of images",
		Long: `Crop fixed pixel margins from every image in a directory, or extract a
fixed-size region (-s WxH@X,Y), or contain-resize into a box (-s WxH -k).
Margins take precedence over --size. Only jpg, jpeg, png and webp files are processed.`,
		Version:       imagecropper.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "Input image directory")
	fs.StringVarP(&f.output, "output", "o", "", "Output image directory")
	fs.StringVarP(&f.size, "size", "s", "", "Crop size (e.g., 100x100 or 100x100@50,30)")
	fs.BoolVarP(&f.keepRatio, "keep-ratio", "k", false, "Maintain original aspect ratio")
	fs.IntVarP(&f.top, "top", "t", 0, "Number of pixels to crop from the top")
	fs.IntVarP(&f.bottom, "bottom", "b", 0, "Number of pixels to crop from the bottom")
	fs.IntVarP(&f.left, "left", "l", 0, "Number of pixels to crop from the left")
	fs.IntVarP(&f.right, "right", "r", 0, "Number of pixels to crop from the right")

	fs.StringVar(&f.configFile, "config", "", "JSON config file")
	fs.IntVarP(&f.workers, "workers", "w", 0, "Number of files processed concurrently")
	fs.IntVarP(&f.quality, "quality", "q", 0, "JPEG/WebP output quality (1-100)")
	fs.BoolVar(&f.lossless, "lossless", false, "WebP output lossless mode")
	fs.BoolVar(&f.strict, "strict", false, "Exit non-zero if any file fails")
	fs.DurationVar(&f.fileTimeout, "file-timeout", 0, "Per-file processing timeout (0 disables)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Development logging")

	return cmd
}

// buildConfig layers defaults, the optional config file, IMGCROP_* env and
// explicitly set flags, in that order, and validates the result
func buildConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(f.configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input = f.input
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("size") {
		spec, err := geometry.ParseSize(f.size)
		if err != nil {
			return nil, err
		}
		cfg.Size = &spec
	}
	if changed("keep-ratio") {
		cfg.KeepRatio = f.keepRatio
	}
	if changed("top") {
		cfg.Margins.Top = f.top
	}
	if changed("bottom") {
		cfg.Margins.Bottom = f.bottom
	}
	if changed("left") {
		cfg.Margins.Left = f.left
	}
	if changed("right") {
		cfg.Margins.Right = f.right
	}
	if changed("workers") {
		cfg.Options.Workers = f.workers
	}
	if changed("quality") {
		cfg.Options.Quality = f.quality
	}
	if changed("lossless") {
		cfg.Options.Lossless = f.lossless
	}
	if changed("strict") {
		cfg.Options.Strict = f.strict
	}
	if changed("file-timeout") {
		cfg.Options.FileTimeout = f.fileTimeout
	}
	if changed("verbose") {
		cfg.Options.Debug = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config) error {
	logger, err := newLogger(cfg.Options.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := imagecropper.New(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	report, err := c.Run(ctx)
	if err != nil {
		if report != nil {
			logger.Error("batch completed with failures", zap.Int("failed", report.Failed), zap.Error(err))
		} else {
			logger.Error("batch aborted", zap.Error(err))
		}
		return err
	}
	return nil
}
