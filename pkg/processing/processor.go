package processing

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-cropper/pkg/types"
)

// Output formats understood by SaveImage
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Processor handles image decode and encode
type Processor struct {
	Quality  int
	Lossless bool
}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{Quality: 90}
}

// FormatFromExt maps a file name to its output format
func FormatFromExt(name string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: unsupported output format for %s", types.ErrIO, name)
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	// Try imaging.Decode (registered decoders)
	img, err := imaging.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("%w: failed to decode %s: %v", types.ErrIO, filepath.Base(path), err)
}

// Encode writes img to w in format
func (p *Processor) Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: p.Lossless, Quality: float32(p.Quality)})
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.Quality))
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// SaveImage encodes img into a temporary file next to path and renames it
// into place, so path never holds a partially written image
func (p *Processor) SaveImage(img image.Image, path string) error {
	format, err := FormatFromExt(path)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = p.Encode(tmp, img, format); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode %s: %v", types.ErrIO, base, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	return nil
}
