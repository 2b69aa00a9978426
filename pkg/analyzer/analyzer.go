package analyzer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-cropper/pkg/types"
)

// ImageAnalyzer reads image metadata without decoding pixel data
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	SupportedFormats []string
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			SupportedFormats: []string{"jpeg", "png", "webp"},
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// Inspect reads the natural dimensions and format of the image at path
func (a *ImageAnalyzer) Inspect(path string) (types.ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.ImageInfo{}, fmt.Errorf("%w: failed to open image file: %v", types.ErrIO, err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return types.ImageInfo{}, fmt.Errorf("%w: failed to read image header: %v", types.ErrIO, err)
	}

	if !a.IsFormatSupported(format) {
		return types.ImageInfo{}, fmt.Errorf("%w: unsupported image format: %s", types.ErrIO, format)
	}

	return GetImageInfo(cfg.Width, cfg.Height, format), nil
}

// GetImageInfo builds an ImageInfo from raw dimensions
func GetImageInfo(width, height int, format string) types.ImageInfo {
	info := types.ImageInfo{
		Width:  width,
		Height: height,
		Format: format,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// IsFormatSupported reports whether a decoder name is in the allow-list
func (a *ImageAnalyzer) IsFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
