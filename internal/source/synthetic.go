package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/lockgrid/internal/grid"
)

// Defaults for the synthetic source.
const (
	// DefaultLatency is the simulated time to answer one request.
	DefaultLatency = 250 * time.Millisecond

	// DefaultChunkSize is the number of rows generated per worker.
	DefaultChunkSize = 512

	// DefaultSeed seeds row generation.
	DefaultSeed uint64 = 0x5eed
)

// Row field keys.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldAge       = "age"
	FieldVisits    = "visits"
	FieldProgress  = "progress"
	FieldStatus    = "status"
)

// Status values.
const (
	StatusRelationship = "relationship"
	StatusComplicated  = "complicated"
	StatusSingle       = "single"
)

const (
	maxAge      = 30
	maxVisits   = 1000
	maxProgress = 100
	// statusSingleCutoff and statusComplicatedCutoff split a 0-99 roll into
	// three roughly equal status buckets.
	statusSingleCutoff      = 66
	statusComplicatedCutoff = 33
)

//nolint:gochecknoglobals // Fixed word lists for name generation.
var (
	firstNames = []string{
		"ada", "bram", "cleo", "dmitri", "edda", "farah", "gus", "hana", "ivo", "juno",
		"kai", "lena", "milo", "nora", "otto", "pia", "quinn", "rosa", "sven", "tova",
		"ugo", "vera", "wren", "xia", "yara", "zane",
	}
	lastNames = []string{
		"anders", "baker", "castillo", "dubois", "eriksen", "fischer", "garcia", "holm",
		"ito", "jensen", "kowalski", "larsen", "moreau", "nakamura", "okafor", "petrov",
		"quiroga", "rossi", "silva", "tanaka", "ueda", "varga", "weber", "yilmaz",
	}
)

// Option configures a Synthetic source.
type Option func(*Synthetic)

// WithLatency sets the simulated latency per request.
func WithLatency(d time.Duration) Option {
	return func(s *Synthetic) {
		s.latency = d
	}
}

// WithSeed sets the generation seed.
func WithSeed(seed uint64) Option {
	return func(s *Synthetic) {
		s.seed = seed
	}
}

// WithChunkSize sets how many rows one worker generates.
func WithChunkSize(n int) Option {
	return func(s *Synthetic) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synthetic) {
		s.logger = logger
	}
}

// Synthetic generates rows on demand. It implements grid.DataSource.
type Synthetic struct {
	latency     time.Duration
	seed        uint64
	chunkSize   int
	concurrency int
	logger      zerolog.Logger
}

// NewSynthetic creates a synthetic source.
func NewSynthetic(opts ...Option) *Synthetic {
	s := &Synthetic{
		latency:     DefaultLatency,
		seed:        DefaultSeed,
		chunkSize:   DefaultChunkSize,
		concurrency: runtime.NumCPU(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestRange waits for the configured latency, then generates rows
// [start, stop). Large ranges are generated concurrently in chunks. A
// cancelled ctx stops the latency timer and returns ctx.Err().
func (s *Synthetic) RequestRange(ctx context.Context, start, stop int) ([]grid.Row, error) {
	if start < 0 || stop < start {
		return nil, fmt.Errorf("%w: [%d,%d)", grid.ErrInvalidRange, start, stop)
	}

	if err := wait(ctx, s.latency); err != nil {
		s.logger.Debug().Int("start", start).Int("stop", stop).Msg("request abandoned")
		return nil, err
	}

	rows := make([]grid.Row, stop-start)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for chunkStart := start; chunkStart < stop; chunkStart += s.chunkSize {
		chunkStop := min(chunkStart+s.chunkSize, stop)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			for i := chunkStart; i < chunkStop; i++ {
				rows[i-start] = s.Row(i)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("start", start).Int("stop", stop).Msg("rows generated")
	return rows, nil
}

// Row generates the row at index.
func (s *Synthetic) Row(index int) grid.Row {
	//nolint:gosec // Deterministic test data, not security sensitive.
	rng := rand.New(rand.NewPCG(s.seed, uint64(index)))

	status := StatusRelationship
	switch roll := rng.IntN(100); {
	case roll > statusSingleCutoff:
		status = StatusSingle
	case roll > statusComplicatedCutoff:
		status = StatusComplicated
	}

	return grid.NewRow(
		grid.Field{Key: FieldFirstName, Value: firstNames[rng.IntN(len(firstNames))]},
		grid.Field{Key: FieldLastName, Value: lastNames[rng.IntN(len(lastNames))]},
		grid.Field{Key: FieldAge, Value: rng.IntN(maxAge)},
		grid.Field{Key: FieldVisits, Value: rng.IntN(maxVisits)},
		grid.Field{Key: FieldProgress, Value: rng.IntN(maxProgress)},
		grid.Field{Key: FieldStatus, Value: status},
	)
}

// wait sleeps for d unless ctx ends first. The timer is stopped either way.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
