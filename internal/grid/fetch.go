package grid

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DataSource loads rows asynchronously. RequestRange returns up to stop-start
// rows in index order and must return promptly once ctx is cancelled,
// releasing any timer or connection it holds.
type DataSource interface {
	RequestRange(ctx context.Context, start, stop int) ([]Row, error)
}

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc func(ctx context.Context, start, stop int) ([]Row, error)

// RequestRange calls f.
func (f DataSourceFunc) RequestRange(ctx context.Context, start, stop int) ([]Row, error) {
	return f(ctx, start, stop)
}

// Settlement is the outcome of a PendingFetch, delivered back to the
// coordinating goroutine and passed to Settle.
type Settlement struct {
	Fetch *PendingFetch
	Rows  []Row
	Err   error
}

// PendingFetch is the handle of one in-flight fetch.
type PendingFetch struct {
	req       FetchRequest
	cancel    context.CancelFunc
	done      chan struct{}
	result    Settlement
	attempts  int
	startedAt time.Time

	cancelled atomic.Bool
	settled   atomic.Bool
}

// Request returns the request this fetch serves.
func (p *PendingFetch) Request() FetchRequest {
	return p.req
}

// Done is closed when the worker has produced a Settlement.
func (p *PendingFetch) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the worker finishes and returns its Settlement. A
// cancelled fetch still produces one; Settle discards it.
func (p *PendingFetch) Wait() Settlement {
	<-p.done
	return p.result
}

// Cancel stops the fetch and guarantees its result is never applied. It is
// safe to call more than once and does nothing after the fetch was settled.
func (p *PendingFetch) Cancel() {
	if p.settled.Load() {
		return
	}
	if p.cancelled.CompareAndSwap(false, true) {
		p.cancel()
	}
}

// Cancelled reports whether Cancel took effect.
func (p *PendingFetch) Cancelled() bool {
	return p.cancelled.Load()
}

// Settled reports whether Settle consumed the fetch's result.
func (p *PendingFetch) Settled() bool {
	return p.settled.Load()
}

// SchedulerStats counts scheduler events since creation.
type SchedulerStats struct {
	Submitted int
	Cancelled int
	Applied   int
	Failed    int
	Discarded int
}

// SchedulerOption configures a FetchScheduler.
type SchedulerOption func(*FetchScheduler)

// WithTimeout bounds every fetch attempt sequence. An expired deadline is a
// fetch failure, not a cancellation. Zero disables the timeout.
func WithTimeout(d time.Duration) SchedulerOption {
	return func(s *FetchScheduler) {
		s.timeout = d
	}
}

// WithRetry retries a failing source up to attempts times in total, waiting
// backoff between attempts. Retries stop as soon as the fetch is cancelled.
func WithRetry(attempts int, backoff time.Duration) SchedulerOption {
	return func(s *FetchScheduler) {
		s.attempts = max(attempts, 1)
		s.backoff = backoff
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *FetchScheduler) {
		s.logger = logger
	}
}

// WithInvalidate sets the callback run after a settled fetch changed the store.
func WithInvalidate(fn func(Range)) SchedulerOption {
	return func(s *FetchScheduler) {
		s.invalidate = fn
	}
}

// FetchScheduler owns the single fetch slot. Submit and Settle must be called
// from the goroutine that owns the RowStore; only the data source call runs on
// a worker goroutine, and it never touches the store.
type FetchScheduler struct {
	store  *RowStore
	source DataSource

	// pending is the only live fetch. It is nil when idle and is cleared on
	// success, failure and cancellation alike.
	pending    *PendingFetch
	generation uint64
	stats      SchedulerStats

	timeout    time.Duration
	attempts   int
	backoff    time.Duration
	invalidate func(Range)
	logger     zerolog.Logger
}

// NewFetchScheduler creates a scheduler that loads rows for store from source.
func NewFetchScheduler(store *RowStore, source DataSource, opts ...SchedulerOption) *FetchScheduler {
	s := &FetchScheduler{
		store:      store,
		source:     source,
		attempts:   1,
		invalidate: func(Range) {},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending returns the live fetch, or nil.
func (s *FetchScheduler) Pending() *PendingFetch {
	return s.pending
}

// Stats returns a copy of the event counters.
func (s *FetchScheduler) Stats() SchedulerStats {
	return s.stats
}

// Submit cancels the live fetch, if any, and starts a new one for r.
func (s *FetchScheduler) Submit(ctx context.Context, r Range) (*PendingFetch, error) {
	if err := s.store.CheckRange(r); err != nil {
		return nil, err
	}

	s.Cancel()
	if s.pending != nil {
		return nil, errSlotOccupied
	}

	s.generation++
	req := FetchRequest{Range: r, Generation: s.generation}

	var workerCtx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		workerCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		workerCtx, cancel = context.WithCancel(ctx)
	}

	p := &PendingFetch{
		req:       req,
		cancel:    cancel,
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}
	s.pending = p
	s.stats.Submitted++

	s.logger.Debug().
		Uint64("generation", req.Generation).
		Stringer("range", r).
		Msg("fetch started")

	go s.run(workerCtx, p)
	return p, nil
}

// Cancel cancels the live fetch and empties the slot.
func (s *FetchScheduler) Cancel() {
	p := s.pending
	if p == nil {
		return
	}
	p.Cancel()
	s.pending = nil
	s.stats.Cancelled++
	s.logger.Debug().
		Uint64("generation", p.req.Generation).
		Stringer("range", p.req.Range).
		Msg("fetch cancelled")
}

// Settle applies a Settlement produced by Submit's worker. Settlements of
// cancelled or superseded fetches are dropped and return nil. A source error
// marks the request's rows Failed and returns a *FetchError. In every case
// the slot is empty afterwards if it held this fetch.
func (s *FetchScheduler) Settle(st Settlement) error {
	p := st.Fetch
	if p == nil {
		return nil
	}
	if p.Cancelled() || p != s.pending {
		if p == s.pending {
			s.pending = nil
		}
		s.stats.Discarded++
		s.logger.Debug().
			Uint64("generation", p.req.Generation).
			Msg("stale fetch result discarded")
		return nil
	}

	s.pending = nil
	p.settled.Store(true)
	r := p.req.Range
	elapsed := time.Since(p.startedAt)

	if st.Err != nil {
		s.stats.Failed++
		if err := s.store.MarkFailed(r); err != nil {
			return err
		}
		s.invalidate(r)
		s.logger.Warn().
			Err(st.Err).
			Uint64("generation", p.req.Generation).
			Stringer("range", r).
			Int("attempts", p.attempts).
			Dur("elapsed", elapsed).
			Msg("fetch failed")
		return &FetchError{Range: r, Generation: p.req.Generation, Attempts: p.attempts, Err: st.Err}
	}

	if err := s.store.ApplyResolved(r, st.Rows); err != nil {
		return fmt.Errorf("applying fetch %d: %w", p.req.Generation, err)
	}
	s.stats.Applied++
	s.invalidate(r)
	s.logger.Debug().
		Uint64("generation", p.req.Generation).
		Stringer("range", r).
		Int("rows", len(st.Rows)).
		Dur("elapsed", elapsed).
		Msg("fetch applied")
	return nil
}

// run executes the data source call on a worker goroutine.
func (s *FetchScheduler) run(ctx context.Context, p *PendingFetch) {
	defer close(p.done)
	defer p.cancel()

	var rows []Row
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		p.attempts = attempt
		rows, err = s.source.RequestRange(ctx, p.req.Range.Start, p.req.Range.Stop)
		if err == nil || ctx.Err() != nil || attempt == s.attempts {
			break
		}
		if !sleepCtx(ctx, s.backoff) {
			break
		}
	}

	if p.Cancelled() {
		err = errors.Join(ErrFetchCancelled, err)
		rows = nil
	}
	p.result = Settlement{Fetch: p, Rows: rows, Err: err}
}

// sleepCtx waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
