package batch

import (
	"fmt"
	"time"

	"github.com/menta2k/image-cropper/pkg/types"
)

// Report summarizes a finished batch. Results follow directory listing order.
type Report struct {
	Results   []types.Result
	Processed int
	Skipped   int
	Failed    int
	Bytes     int64
	Elapsed   time.Duration
}

func newReport(results []types.Result, elapsed time.Duration) *Report {
	rep := &Report{Results: results, Elapsed: elapsed}
	for _, res := range results {
		switch res.Status {
		case types.StatusProcessed:
			rep.Processed++
			rep.Bytes += res.Bytes
		case types.StatusSkipped:
			rep.Skipped++
		case types.StatusFailed:
			rep.Failed++
		}
	}
	return rep
}

// FailedResults returns only the failed entries
func (rep *Report) FailedResults() []types.Result {
	var out []types.Result
	for _, res := range rep.Results {
		if res.Status == types.StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Err returns ErrBatchFailed when strict is set and any file failed.
// Without strict, per-file failures never produce an error.
func (rep *Report) Err(strict bool) error {
	if strict && rep.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, rep.Failed, len(rep.Results))
	}
	return nil
}
