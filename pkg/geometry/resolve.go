// Package geometry turns crop and size options into a single transform
// per image.
//
// Margins win over a size spec. A size spec either extracts a fixed
// rectangle at its offset or, in keep-ratio mode, contain-resizes the whole
// image into the box. Keep-ratio mode ignores the offset since it never crops.
// With neither option the transform is Identity and the file is re-encoded
// unchanged.
package geometry

import (
	"fmt"

	"github.com/menta2k/image-cropper/pkg/types"
)

var (
	// ErrMarginExceedsBounds is returned when margins consume a whole axis
	ErrMarginExceedsBounds = fmt.Errorf("%w: margins exceed image bounds", types.ErrBounds)
	// ErrExtractExceedsBounds is returned when the size spec rectangle leaves the image
	ErrExtractExceedsBounds = fmt.Errorf("%w: extract area exceeds image bounds", types.ErrBounds)
)

// Margins are pixel bands removed from each edge
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// IsZero reports whether no margin is set
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Bottom == 0 && m.Left == 0 && m.Right == 0
}

// Validate rejects negative margins
func (m Margins) Validate() error {
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return fmt.Errorf("%w: margins must be non-negative, got top=%d bottom=%d left=%d right=%d",
			types.ErrConfig, m.Top, m.Bottom, m.Left, m.Right)
	}
	return nil
}

// Options are the geometry-relevant parts of the configuration
type Options struct {
	Margins   Margins
	Size      *SizeSpec
	KeepRatio bool
}

// Resolve picks the transform for a srcW x srcH image
func Resolve(opts Options, srcW, srcH int) (Transform, error) {
	if srcW <= 0 || srcH <= 0 {
		return Transform{}, fmt.Errorf("%w: invalid image dimensions %dx%d", types.ErrBounds, srcW, srcH)
	}

	if m := opts.Margins; !m.IsZero() {
		if err := m.Validate(); err != nil {
			return Transform{}, err
		}
		// per axis against the remainder; l+r may overflow int
		if m.Left >= srcW || m.Right >= srcW-m.Left || m.Top >= srcH || m.Bottom >= srcH-m.Top {
			return Transform{}, fmt.Errorf("%w: image %dx%d, margins top=%d bottom=%d left=%d right=%d",
				ErrMarginExceedsBounds, srcW, srcH, m.Top, m.Bottom, m.Left, m.Right)
		}
		return Extract(m.Left, m.Top, srcW-m.Left-m.Right, srcH-m.Top-m.Bottom), nil
	}

	if s := opts.Size; s != nil {
		if opts.KeepRatio {
			return Contain(int(s.Width), int(s.Height)), nil
		}
		// X+Width may not fit in int
		if uint64(s.X)+uint64(s.Width) > uint64(srcW) || uint64(s.Y)+uint64(s.Height) > uint64(srcH) {
			return Transform{}, fmt.Errorf("%w: image %dx%d, extract %s",
				ErrExtractExceedsBounds, srcW, srcH, s)
		}
		return Extract(int(s.X), int(s.Y), int(s.Width), int(s.Height)), nil
	}

	return Identity(), nil
}
