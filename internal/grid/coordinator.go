package grid

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// PaneSide identifies one of the three panes.
type PaneSide uint8

const (
	// PaneLeft holds the left-pinned columns.
	PaneLeft PaneSide = iota
	// PaneCenter holds the unpinned, horizontally scrolling columns.
	PaneCenter
	// PaneRight holds the right-pinned columns.
	PaneRight
)

// String returns the pane name.
func (p PaneSide) String() string {
	switch p {
	case PaneLeft:
		return "left"
	case PaneCenter:
		return "center"
	case PaneRight:
		return "right"
	default:
		return fmt.Sprintf("PaneSide(%d)", uint8(p))
	}
}

// Pane is one rendered column group. All panes share the coordinator's store.
type Pane struct {
	Side    PaneSide
	Columns []Column
	Leaves  []Leaf
	Headers [][]HeaderCell
	// Width is the total width of the pane's leaves, used for both the header
	// and the body so they line up.
	Width int
}

// Invalidator is told which rows must be redrawn.
type Invalidator interface {
	Invalidate(r Range)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(r Range)

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate(r Range) {
	f(r)
}

// CoordinatorOption configures a PaneCoordinator.
type CoordinatorOption func(*PaneCoordinator)

// WithFetchPolicy sets the window tracker policy.
func WithFetchPolicy(p FetchPolicy) CoordinatorOption {
	return func(c *PaneCoordinator) {
		c.policy = p
	}
}

// WithSchedulerOptions passes options to every scheduler the coordinator builds.
func WithSchedulerOptions(opts ...SchedulerOption) CoordinatorOption {
	return func(c *PaneCoordinator) {
		c.schedulerOpts = append(c.schedulerOpts, opts...)
	}
}

// WithCoordinatorLogger sets the logger for the coordinator and its scheduler.
func WithCoordinatorLogger(logger zerolog.Logger) CoordinatorOption {
	return func(c *PaneCoordinator) {
		c.logger = logger
	}
}

// PaneCoordinator drives the left, center and right panes from one row store.
// Only the authority pane's rendered-window notifications reach the window
// tracker, so one scroll produces at most one fetch decision no matter how
// many panes draw it. Settled fetches invalidate every registered pane.
//
// Like RowStore, a PaneCoordinator must be used from a single goroutine.
type PaneCoordinator struct {
	panes     []Pane
	authority PaneSide
	source    DataSource

	store     *RowStore
	tracker   *WindowTracker
	scheduler *FetchScheduler

	invalidators []Invalidator
	visible      Range

	policy        FetchPolicy
	schedulerOpts []SchedulerOption
	logger        zerolog.Logger
}

// NewPaneCoordinator validates cols, partitions them into panes and creates a
// store of rows placeholder rows loaded from source.
func NewPaneCoordinator(
	cols []TopColumn,
	rows int,
	source DataSource,
	opts ...CoordinatorOption,
) (*PaneCoordinator, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if err := ValidateColumns(cols); err != nil {
		return nil, err
	}

	c := &PaneCoordinator{
		source: source,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	parts := Partition(cols)
	for side, group := range [...][]Column{
		PaneLeft:   parts.Left,
		PaneCenter: parts.Center,
		PaneRight:  parts.Right,
	} {
		if len(group) == 0 {
			continue
		}
		c.panes = append(c.panes, Pane{
			Side:    PaneSide(side),
			Columns: group,
			Leaves:  Leaves(group),
			Headers: HeaderRows(group),
			Width:   TotalWidth(group),
		})
	}

	c.authority = PaneCenter
	if _, ok := c.Pane(PaneCenter); !ok && len(c.panes) > 0 {
		c.authority = c.panes[0].Side
	}

	c.Reset(rows)
	return c, nil
}

// Reset cancels the live fetch and replaces the store with rows fresh
// placeholders, as for a new dataset load.
func (c *PaneCoordinator) Reset(rows int) {
	if c.scheduler != nil {
		c.scheduler.Cancel()
	}

	c.store = NewRowStore(rows)
	c.tracker = NewWindowTracker(c.store, c.policy)

	opts := append([]SchedulerOption{WithLogger(c.logger)}, c.schedulerOpts...)
	opts = append(opts, WithInvalidate(c.invalidateAll))
	c.scheduler = NewFetchScheduler(c.store, c.source, opts...)
	c.visible = Range{}

	c.logger.Debug().Int("rows", rows).Int("panes", len(c.panes)).Msg("dataset reset")
}

// Store returns the read-only row view shared by all panes.
func (c *PaneCoordinator) Store() RowReader {
	return c.store
}

// RowCount returns the number of rows in the dataset.
func (c *PaneCoordinator) RowCount() int {
	return c.store.Len()
}

// ResolvedCount returns how many rows hold data.
func (c *PaneCoordinator) ResolvedCount() int {
	return c.store.Resolved()
}

// Panes returns the non-empty panes in left, center, right order.
func (c *PaneCoordinator) Panes() []Pane {
	return c.panes
}

// Pane returns the pane for side, if it has columns.
func (c *PaneCoordinator) Pane(side PaneSide) (Pane, bool) {
	for _, p := range c.panes {
		if p.Side == side {
			return p, true
		}
	}
	return Pane{}, false
}

// Authority returns the pane whose rendered window drives fetching: the center
// pane, or the first non-empty pane when there are no center columns.
func (c *PaneCoordinator) Authority() PaneSide {
	return c.authority
}

// Visible returns the last window reported by the authority pane.
func (c *PaneCoordinator) Visible() Range {
	return c.visible
}

// Pending returns the live fetch, or nil.
func (c *PaneCoordinator) Pending() *PendingFetch {
	return c.scheduler.Pending()
}

// Stats returns the scheduler counters.
func (c *PaneCoordinator) Stats() SchedulerStats {
	return c.scheduler.Stats()
}

// Policy returns the fetch policy.
func (c *PaneCoordinator) Policy() FetchPolicy {
	return c.tracker.Policy()
}

// Register adds a pane view to be invalidated when fetched rows land.
func (c *PaneCoordinator) Register(inv Invalidator) {
	c.invalidators = append(c.invalidators, inv)
}

// OnItemsRendered receives the rendered window (overscan included) of the
// pane on side. Notifications from panes other than the authority are
// ignored. It returns the fetch serving the window when one is needed, or nil
// when the window is fully resolved. A live fetch whose range already covers
// the request is returned as is instead of being restarted.
func (c *PaneCoordinator) OnItemsRendered(ctx context.Context, side PaneSide, r Range) (*PendingFetch, error) {
	if side != c.authority {
		return nil, nil
	}
	c.visible = r

	req, ok, err := c.tracker.OnVisibleRangeChanged(r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if live := c.scheduler.Pending(); live != nil && live.Request().Range.Covers(req.Range) {
		return live, nil
	}
	return c.scheduler.Submit(ctx, req.Range)
}

// Settle applies a fetch outcome. See FetchScheduler.Settle.
func (c *PaneCoordinator) Settle(st Settlement) error {
	return c.scheduler.Settle(st)
}

// Cancel cancels the live fetch.
func (c *PaneCoordinator) Cancel() {
	c.scheduler.Cancel()
}

func (c *PaneCoordinator) invalidateAll(r Range) {
	for _, inv := range c.invalidators {
		inv.Invalidate(r)
	}
}
