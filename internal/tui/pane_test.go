package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lockgrid/internal/grid"
)

func testPane(t *testing.T) (*paneView, *grid.RowStore) {
	t.Helper()
	cols := []grid.Column{
		grid.Leaf{Key: "name", CellWidth: 8},
		grid.Leaf{Key: "age", CellWidth: 5},
	}
	pane := grid.Pane{
		Side:    grid.PaneCenter,
		Columns: cols,
		Leaves:  grid.Leaves(cols),
		Headers: grid.HeaderRows(cols),
		Width:   grid.TotalWidth(cols),
	}
	store := grid.NewRowStore(20)
	return newPaneView(pane, store, 5, 1), store
}

func TestPaneView_RowText(t *testing.T) {
	p, store := testPane(t)
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 1}, []grid.Row{
		grid.NewRow(grid.Field{Key: "name", Value: "Ada"}, grid.Field{Key: "age", Value: 36}),
	}))
	require.NoError(t, store.MarkFailed(grid.Range{Start: 1, Stop: 2}))

	text, state := p.rowText(0)
	assert.Equal(t, grid.StateResolved, state)
	assert.Equal(t, "Ada     36   ", text)

	text, state = p.rowText(1)
	assert.Equal(t, grid.StateFailed, state)
	assert.True(t, strings.HasPrefix(text, "! failed"))

	text, state = p.rowText(2)
	assert.Equal(t, grid.StatePlaceholder, state)
	assert.Equal(t, fit(LoadingText, 13), text)
	assert.Len(t, p.cache, 1)
}

func TestPaneView_InvalidateEvictsRange(t *testing.T) {
	p, store := testPane(t)
	rows := make([]grid.Row, 3)
	for i := range rows {
		rows[i] = grid.NewRow(grid.Field{Key: "name", Value: "x"})
	}
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 3}, rows))
	for i := range 3 {
		p.rowText(i)
	}
	require.Len(t, p.cache, 3)

	p.Invalidate(grid.Range{Start: 1, Stop: 3})

	assert.Len(t, p.cache, 1)
	assert.Equal(t, 1, p.invalidated)
}

func TestPaneView_EvictOutsideRenderedWindow(t *testing.T) {
	p, _ := testPane(t)
	p.cache[0] = "a"
	p.cache[5] = "b"
	p.cache[19] = "c"

	p.evictOutside()

	// Viewport 0..5 plus overscan 1.
	assert.Contains(t, p.cache, 0)
	assert.Contains(t, p.cache, 5)
	assert.NotContains(t, p.cache, 19)
}

func TestPaneView_ScrollClampsToWidth(t *testing.T) {
	p, _ := testPane(t)
	p.setViewWidth(6)

	p.scroll(100)
	assert.Equal(t, 13-6, p.offset)

	p.scroll(-100)
	assert.Equal(t, 0, p.offset)

	p.setViewWidth(50)
	assert.Equal(t, 13, p.viewWidth)
}

func TestPaneView_BodyPadsToHeight(t *testing.T) {
	p, _ := testPane(t)

	lines := p.body(8)

	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "loading")
	assert.Equal(t, strings.Repeat(" ", 13), lines[7])
}

func TestPaneView_HeaderLinesPadToDepth(t *testing.T) {
	p, _ := testPane(t)

	lines := p.headerLines(2)

	require.Len(t, lines, 2)
	assert.Equal(t, strings.Repeat(" ", 13), lines[0])
	assert.Contains(t, lines[1], "name")
	assert.Contains(t, lines[1], "age")
}
