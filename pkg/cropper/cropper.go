package cropper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/types"
)

// Cropper applies resolved transforms to decoded images
type Cropper struct {
	config CropConfig
}

// CropConfig holds configuration for transform application
type CropConfig struct {
	// Filter is the resampling filter used by contain resizes
	Filter imaging.ResampleFilter
	// Background fills the padding around a contained image
	Background color.Color
}

// New creates a new Cropper with default configuration
func New() *Cropper {
	return &Cropper{
		config: CropConfig{
			Filter:     imaging.Lanczos,
			Background: color.NRGBA{0, 0, 0, 0},
		},
	}
}

// NewWithConfig creates a new Cropper with custom configuration
func NewWithConfig(config CropConfig) *Cropper {
	if config.Background == nil {
		config.Background = color.NRGBA{0, 0, 0, 0}
	}
	return &Cropper{config: config}
}

// Apply returns img transformed by t
func (c *Cropper) Apply(img image.Image, t geometry.Transform) (image.Image, error) {
	switch t.Kind {
	case geometry.KindIdentity:
		return img, nil
	case geometry.KindExtract:
		return c.Extract(img, t.Rect)
	case geometry.KindContain:
		return c.Contain(img, t.Width, t.Height)
	}
	return nil, fmt.Errorf("unknown transform kind %d", t.Kind)
}

// Extract crops rect, given relative to the image's top-left corner
func (c *Cropper) Extract(img image.Image, rect image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	local := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if rect.Empty() || !rect.In(local) {
		return nil, fmt.Errorf("%w: crop region %v outside image bounds %v", types.ErrBounds, rect, local)
	}
	return imaging.Crop(img, rect.Add(bounds.Min)), nil
}

// Contain scales img to fit inside width x height keeping its aspect ratio
// and centers it on a canvas of exactly that size
func (c *Cropper) Contain(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid contain box %dx%d", types.ErrBounds, width, height)
	}
	bounds := img.Bounds()
	w, h := geometry.ContainSize(bounds.Dx(), bounds.Dy(), width, height)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: invalid image dimensions %dx%d", types.ErrBounds, bounds.Dx(), bounds.Dy())
	}

	resized := imaging.Resize(img, w, h, c.config.Filter)
	canvas := imaging.New(width, height, c.config.Background)
	return imaging.PasteCenter(canvas, resized), nil
}
