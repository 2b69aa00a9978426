package geometry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/menta2k/image-cropper/pkg/types"
)

const ptSize = `^(?P<w>\d+)x(?P<h>\d+)(?:@(?P<x>\d+),(?P<y>\d+))?$`

var sre = regexp.MustCompile(ptSize)

var (
	// ErrInvalidFormat is returned for size strings outside WxH or WxH@X,Y
	ErrInvalidFormat = fmt.Errorf("%w: invalid size format, expected WxH or WxH@X,Y (e.g. 100x100 or 100x100@50,30)", types.ErrConfig)
	// ErrZeroSize is returned by Validate for a zero width or height
	ErrZeroSize = fmt.Errorf("%w: size width and height must be positive", types.ErrConfig)
)

// SizeSpec is a requested output box and an optional top-left offset.
// It encodes as its string form in JSON.
type SizeSpec struct {
	Width  uint
	Height uint
	X      uint
	Y      uint
}

// ParseSize parses "WxH" or "WxH@X,Y". X and Y default to 0.
// A literal zero dimension parses; use Validate to reject it.
func ParseSize(s string) (SizeSpec, error) {
	m := sre.FindStringSubmatch(s)
	if m == nil {
		return SizeSpec{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	var (
		vals [4]uint
		err  error
	)
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		if vals[i], err = parseDim(part); err != nil {
			return SizeSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
		}
	}
	return SizeSpec{Width: vals[0], Height: vals[1], X: vals[2], Y: vals[3]}, nil
}

func parseDim(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return 0, ne.Err
		}
		return 0, err
	}
	return uint(n), nil
}

// Validate rejects sizes that cannot describe a crop or resize box
func (s SizeSpec) Validate() error {
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("%w: got %s", ErrZeroSize, s)
	}
	return nil
}

// HasOffset reports whether an explicit offset was given
func (s SizeSpec) HasOffset() bool {
	return s.X != 0 || s.Y != 0
}

func (s SizeSpec) String() string {
	if s.HasOffset() {
		return fmt.Sprintf("%dx%d@%d,%d", s.Width, s.Height, s.X, s.Y)
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// MarshalText implements encoding.TextMarshaler
func (s SizeSpec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SizeSpec) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
