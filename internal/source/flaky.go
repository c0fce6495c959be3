package source

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rshade/lockgrid/internal/grid"
)

// ErrInjected is returned by requests that Flaky chose to fail.
var ErrInjected = errors.New("injected source failure")

// Flaky wraps a data source and fails the first of every n requests.
type Flaky struct {
	next  grid.DataSource
	every int64
	count atomic.Int64
}

// NewFlaky wraps next. With every <= 0 no request fails.
func NewFlaky(next grid.DataSource, every int) *Flaky {
	return &Flaky{next: next, every: int64(every)}
}

// RequestRange forwards to the wrapped source unless this request is chosen
// to fail.
func (f *Flaky) RequestRange(ctx context.Context, start, stop int) ([]grid.Row, error) {
	n := f.count.Add(1)
	if f.every > 0 && (n-1)%f.every == 0 {
		return nil, fmt.Errorf("request %d for [%d,%d): %w", n, start, stop, ErrInjected)
	}
	return f.next.RequestRange(ctx, start, stop)
}
