package grid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lockgrid/internal/grid"
)

func demoColumns() []grid.TopColumn {
	return []grid.TopColumn{
		{Column: grid.Leaf{Key: "loading", Hidden: true}},
		{Column: grid.Leaf{Header: "Row Index", Accessor: rowIndex, CellWidth: 9}, Pin: grid.PinLeft},
		{Column: grid.Group{Header: "A", Children: []grid.Column{
			grid.Leaf{Header: "A1", Key: "a1"},
			grid.Leaf{Header: "A2", Key: "a2"},
		}}},
		{Column: grid.Leaf{Header: "Status", Key: "status"}, Pin: grid.PinRight},
	}
}

type recordingPane struct {
	ranges []grid.Range
}

func (p *recordingPane) Invalidate(r grid.Range) {
	p.ranges = append(p.ranges, r)
}

func TestNewPaneCoordinator(t *testing.T) {
	coord, err := grid.NewPaneCoordinator(demoColumns(), 100000, newGatedSource())
	require.NoError(t, err)

	panes := coord.Panes()
	require.Len(t, panes, 3)
	assert.Equal(t, grid.PaneLeft, panes[0].Side)
	assert.Equal(t, grid.PaneCenter, panes[1].Side)
	assert.Equal(t, grid.PaneRight, panes[2].Side)

	assert.Equal(t, 9, panes[0].Width)
	assert.Equal(t, 2*grid.DefaultColumnWidth, panes[1].Width)
	assert.Len(t, panes[1].Leaves, 2)
	assert.Len(t, panes[1].Headers, 2)

	assert.Equal(t, grid.PaneCenter, coord.Authority())
	assert.Equal(t, 100000, coord.RowCount())
	assert.Equal(t, 0, coord.ResolvedCount())
	assert.Equal(t, grid.PolicyWholeWindow, coord.Policy())
}

func TestNewPaneCoordinator_Errors(t *testing.T) {
	_, err := grid.NewPaneCoordinator(demoColumns(), 10, nil)
	require.ErrorIs(t, err, grid.ErrNilSource)

	_, err = grid.NewPaneCoordinator([]grid.TopColumn{{Column: grid.Leaf{}}}, 10, newGatedSource())
	require.ErrorIs(t, err, grid.ErrInvalidColumn)
}

func TestPaneCoordinator_AuthorityFallsBackWithoutCenter(t *testing.T) {
	cols := []grid.TopColumn{
		{Column: grid.Leaf{Key: "r"}, Pin: grid.PinRight},
		{Column: grid.Leaf{Key: "l"}, Pin: grid.PinLeft},
	}
	coord, err := grid.NewPaneCoordinator(cols, 10, newGatedSource())
	require.NoError(t, err)

	assert.Equal(t, grid.PaneLeft, coord.Authority())
	_, ok := coord.Pane(grid.PaneCenter)
	assert.False(t, ok)
}

func TestPaneCoordinator_ScrollScenario(t *testing.T) {
	src := newGatedSource()
	coord, err := grid.NewPaneCoordinator(demoColumns(), 100000, src)
	require.NoError(t, err)

	panes := map[grid.PaneSide]*recordingPane{}
	for _, p := range coord.Panes() {
		rp := &recordingPane{}
		panes[p.Side] = rp
		coord.Register(rp)
	}
	ctx := context.Background()

	// All three panes draw the same window; only the center pane decides.
	var first *grid.PendingFetch
	for _, side := range []grid.PaneSide{grid.PaneLeft, grid.PaneCenter, grid.PaneRight} {
		p, err := coord.OnItemsRendered(ctx, side, grid.Range{Start: 0, Stop: 35})
		require.NoError(t, err)
		if side == grid.PaneCenter {
			require.NotNil(t, p)
			first = p
		} else {
			assert.Nil(t, p)
		}
	}
	assert.Equal(t, grid.Range{Start: 0, Stop: 35}, first.Request().Range)
	assert.Equal(t, 1, coord.Stats().Submitted)

	// The view scrolls before the first fetch settles.
	second, err := coord.OnItemsRendered(ctx, grid.PaneCenter, grid.Range{Start: 50, Stop: 85})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, first.Cancelled())
	assert.Equal(t, grid.Range{Start: 50, Stop: 85}, second.Request().Range)
	assert.Equal(t, grid.Range{Start: 50, Stop: 85}, coord.Visible())

	close(src.release)
	require.NoError(t, coord.Settle(first.Wait()))
	require.NoError(t, coord.Settle(second.Wait()))

	store := coord.Store()
	for i := 0; i < 35; i++ {
		ok, err := store.IsResolved(i)
		require.NoError(t, err)
		assert.False(t, ok, "row %d", i)
	}
	for i := 50; i < 85; i++ {
		ok, err := store.IsResolved(i)
		require.NoError(t, err)
		assert.True(t, ok, "row %d", i)
	}

	for side, rp := range panes {
		assert.Equal(t, []grid.Range{{Start: 50, Stop: 85}}, rp.ranges, side.String())
	}

	// Once resolved, the same window does not fetch again.
	p, err := coord.OnItemsRendered(ctx, grid.PaneCenter, grid.Range{Start: 50, Stop: 85})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 2, coord.Stats().Submitted)
}

func TestPaneCoordinator_CoveredWindowKeepsLiveFetch(t *testing.T) {
	src := newGatedSource()
	coord, err := grid.NewPaneCoordinator(demoColumns(), 1000, src)
	require.NoError(t, err)
	ctx := context.Background()

	live, err := coord.OnItemsRendered(ctx, grid.PaneCenter, grid.Range{Start: 0, Stop: 40})
	require.NoError(t, err)

	again, err := coord.OnItemsRendered(ctx, grid.PaneCenter, grid.Range{Start: 5, Stop: 30})
	require.NoError(t, err)

	assert.Same(t, live, again)
	assert.False(t, live.Cancelled())
	assert.Equal(t, 1, coord.Stats().Submitted)

	coord.Cancel()
	assert.True(t, live.Cancelled())
	assert.Nil(t, coord.Pending())
}

func TestPaneCoordinator_Reset(t *testing.T) {
	src := newGatedSource()
	coord, err := grid.NewPaneCoordinator(demoColumns(), 100, src)
	require.NoError(t, err)

	live, err := coord.OnItemsRendered(context.Background(), grid.PaneCenter, grid.Range{Start: 0, Stop: 10})
	require.NoError(t, err)

	coord.Reset(500)

	assert.True(t, live.Cancelled())
	assert.Equal(t, 500, coord.RowCount())
	assert.Nil(t, coord.Pending())
	assert.Equal(t, grid.Range{}, coord.Visible())

	// The old fetch cannot land in the new store.
	close(src.release)
	require.NoError(t, coord.Settle(live.Wait()))
	assert.Equal(t, 0, coord.ResolvedCount())
}

func TestPaneCoordinator_InvalidWindow(t *testing.T) {
	coord, err := grid.NewPaneCoordinator(demoColumns(), 10, newGatedSource())
	require.NoError(t, err)

	_, err = coord.OnItemsRendered(context.Background(), grid.PaneCenter, grid.Range{Start: 0, Stop: 11})
	require.ErrorIs(t, err, grid.ErrInvalidRange)
}
