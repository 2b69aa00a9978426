package geometry

import (
	"fmt"
	"image"
	"math"
)

// Kind selects which geometric operation a Transform performs
type Kind int

const (
	KindIdentity Kind = iota
	KindExtract
	KindContain
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindExtract:
		return "extract"
	case KindContain:
		return "contain"
	}
	return "unknown"
}

// Transform is exactly one operation applied to a source image.
// Rect is only meaningful for KindExtract, Width and Height only for KindContain.
type Transform struct {
	Kind   Kind
	Rect   image.Rectangle
	Width  int
	Height int
}

// Identity leaves the image geometry untouched
func Identity() Transform {
	return Transform{Kind: KindIdentity}
}

// Extract crops the rectangle with the given top-left corner and size
func Extract(left, top, width, height int) Transform {
	return Transform{Kind: KindExtract, Rect: image.Rect(left, top, left+width, top+height)}
}

// Contain scales the whole image to fit inside a width x height box, centered
func Contain(width, height int) Transform {
	return Transform{Kind: KindContain, Width: width, Height: height}
}

func (t Transform) String() string {
	switch t.Kind {
	case KindExtract:
		return fmt.Sprintf("extract %dx%d@%d,%d", t.Rect.Dx(), t.Rect.Dy(), t.Rect.Min.X, t.Rect.Min.Y)
	case KindContain:
		return fmt.Sprintf("contain %dx%d", t.Width, t.Height)
	}
	return t.Kind.String()
}

// ContainSize returns the dimensions of a srcW x srcH image scaled to fit
// inside boxW x boxH with its aspect ratio kept. Upscaling is allowed.
func ContainSize(srcW, srcH, boxW, boxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(boxW)/float64(srcW), float64(boxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	w = clampInt(w, 1, boxW)
	h = clampInt(h, 1, boxH)
	return w, h
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
