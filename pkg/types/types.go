package types

import (
	"errors"
	"time"
)

// Error categories. Concrete errors wrap one of these so callers can
// classify a failure with errors.Is.
var (
	// ErrConfig marks invalid startup configuration. Fatal before any file is touched.
	ErrConfig = errors.New("config error")
	// ErrBounds marks a crop rectangle that does not fit the source image.
	ErrBounds = errors.New("bounds error")
	// ErrIO marks unreadable, undecodable or unwritable files.
	ErrIO = errors.New("io error")
)

// ImageInfo contains basic image metadata read from the file header
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Format      string  `json:"format"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Status is the outcome of processing a single file
type Status int

const (
	StatusSkipped Status = iota
	StatusProcessed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusProcessed:
		return "processed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result reports what happened to one input file
type Result struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Transform string        `json:"transform,omitempty"`
	Bytes     int64         `json:"bytes,omitempty"`
	Err       error         `json:"-"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Skipped builds a result for a file that was not attempted
func Skipped(name, reason string) Result {
	return Result{Name: name, Status: StatusSkipped, Reason: reason}
}

// Failed builds a result for a file whose processing returned err
func Failed(name string, err error) Result {
	return Result{Name: name, Status: StatusFailed, Err: err}
}
