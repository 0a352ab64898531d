package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const DefaultFetchTimeout = 10 * time.Second

var (
	ErrNoSource    = errors.New("no grid source configured")
	ErrUnavailable = errors.New("grid source unavailable")
	ErrTimeout     = errors.New("grid fetch timed out")
	ErrEmpty       = errors.New("grid is empty")
)

// Source fetches a worksheet as a grid of string cells.
type Source interface {
	Fetch(ctx context.Context, sheetID, worksheet string) ([][]string, error)
}

// WorksheetLister is implemented by sources that can enumerate worksheets.
type WorksheetLister interface {
	Worksheets(ctx context.Context, sheetID string) ([]string, error)
}

// Result is the outcome of a single fetch. Err is nil only when Grid holds
// at least one row; otherwise it wraps one of the package sentinels.
type Result struct {
	Grid    [][]string
	Err     error
	Elapsed time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

// FetchGrid runs src.Fetch under timeout and folds every failure mode,
// panics included, into Result.Err.
func FetchGrid(ctx context.Context, src Source, sheetID, worksheet string, timeout time.Duration) (res Result) {
	if src == nil {
		return Result{Err: ErrNoSource}
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		res.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: panic: %v", ErrUnavailable, r), Elapsed: time.Since(start)}
		}
	}()

	grid, err := src.Fetch(ctx, sheetID, worksheet)
	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Result{Err: fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, err)}
	case err != nil:
		return Result{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	case len(grid) == 0:
		return Result{Err: fmt.Errorf("%w: %s/%s", ErrEmpty, sheetID, worksheet)}
	}
	return Result{Grid: grid}
}
