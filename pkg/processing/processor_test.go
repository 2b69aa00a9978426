package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"

	"github.com/menta2k/image-cropper/pkg/types"
)

func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 200, 255})
		}
	}
	return img
}

func TestFormatFromExt(t *testing.T) {
	cases := map[string]string{
		"a.jpg":  FormatJPEG,
		"a.JPEG": FormatJPEG,
		"b.png":  FormatPNG,
		"c.WebP": FormatWebP,
	}
	for name, want := range cases {
		got, err := FormatFromExt(name)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", name, got, want)
		}
	}
	if _, err := FormatFromExt("notes.txt"); !errors.Is(err, types.ErrIO) {
		t.Errorf("Expected ErrIO for txt, got %v", err)
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	p := NewProcessor()
	path := filepath.Join(t.TempDir(), "out.png")

	if err := p.SaveImage(createTestImage(64, 48), path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	img, err := p.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestSaveAndLoadJPEG(t *testing.T) {
	p := &Processor{Quality: 75}
	path := filepath.Join(t.TempDir(), "out.jpg")

	if err := p.SaveImage(createTestImage(20, 30), path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	img, err := p.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 20x30", b.Dx(), b.Dy())
	}
}

func TestSaveAndLoadWebP(t *testing.T) {
	for _, lossless := range []bool{false, true} {
		p := &Processor{Quality: 80, Lossless: lossless}
		path := filepath.Join(t.TempDir(), "out.webp")

		if err := p.SaveImage(createTestImage(40, 30), path); err != nil {
			t.Fatalf("SaveImage (lossless=%v) failed: %v", lossless, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
			t.Errorf("lossless=%v: output is not a RIFF/WEBP container", lossless)
		}
		img, err := p.LoadImage(path)
		if err != nil {
			t.Fatalf("LoadImage (lossless=%v) failed: %v", lossless, err)
		}
		if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
			t.Errorf("lossless=%v dimensions: got %dx%d, want 40x30", lossless, b.Dx(), b.Dy())
		}
	}
}

func TestEncodeWebPLosslessKeepsPixels(t *testing.T) {
	src := createTestImage(6, 4)
	var buf bytes.Buffer
	if err := (&Processor{Quality: 90, Lossless: true}).Encode(&buf, src, FormatWebP); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := webp.Decode(&buf)
	if err != nil {
		t.Fatalf("webp.Decode failed: %v", err)
	}
	r1, g1, b1, _ := src.At(3, 2).RGBA()
	r2, g2, b2, _ := img.At(3, 2).RGBA()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Errorf("pixel (3,2): got %d,%d,%d want %d,%d,%d", r2, g2, b2, r1, g1, b1)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor()
	if err := p.SaveImage(createTestImage(8, 8), filepath.Join(dir, "a.png")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.png" {
		t.Errorf("Expected only a.png in output dir, got %v", entries)
	}
}

func TestSaveUnsupportedExt(t *testing.T) {
	dir := t.TempDir()
	err := NewProcessor().SaveImage(createTestImage(8, 8), filepath.Join(dir, "a.gif"))
	if !errors.Is(err, types.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty dir, got %v", entries)
	}
}

func TestSaveMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "a.png")
	if err := NewProcessor().SaveImage(createTestImage(8, 8), path); !errors.Is(err, types.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.webp")
	if err := os.WriteFile(path, []byte("RIFF....garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProcessor().LoadImage(path); !errors.Is(err, types.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}
