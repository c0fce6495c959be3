package tui

import (
	"strings"

	"github.com/rshade/lockgrid/internal/grid"
	listview "github.com/rshade/lockgrid/internal/tui/list"
)

// paneView renders one grid.Pane through its own list window. It caches the
// text of resolved rows; invalidation evicts the cached rows of a range.
type paneView struct {
	pane   grid.Pane
	store  grid.RowReader
	window *listview.Window

	// viewWidth is the number of cells shown; smaller than pane.Width only for
	// the horizontally scrolling center pane.
	viewWidth int
	offset    int

	cache       map[int]string
	invalidated int
}

func newPaneView(pane grid.Pane, store grid.RowReader, height, overscan int) *paneView {
	p := &paneView{
		pane:      pane,
		store:     store,
		viewWidth: pane.Width,
		cache:     make(map[int]string),
	}
	p.window = listview.NewWindow(pane.Side.String(), store.Len(), height, pane.Width, p.renderRow)
	p.window.SetOverscan(overscan)
	return p
}

// Invalidate implements grid.Invalidator.
func (p *paneView) Invalidate(r grid.Range) {
	p.invalidated++
	for i := r.Start; i < r.Stop; i++ {
		delete(p.cache, i)
	}
}

// reset points the pane at a new store after a dataset reload.
func (p *paneView) reset(store grid.RowReader) {
	p.store = store
	p.cache = make(map[int]string)
	p.window.SetCount(store.Len())
}

// setViewWidth limits the drawn width and keeps the horizontal offset valid.
func (p *paneView) setViewWidth(width int) {
	p.viewWidth = min(max(width, 0), p.pane.Width)
	p.scroll(0)
}

// scroll moves the horizontal offset by delta cells.
func (p *paneView) scroll(delta int) {
	p.offset = min(max(p.offset+delta, 0), max(p.pane.Width-p.viewWidth, 0))
}

// evictOutside drops cached rows that left the rendered window.
func (p *paneView) evictOutside() {
	from, to := p.window.RenderedFrom(), p.window.RenderedTo()
	for i := range p.cache {
		if i < from || i >= to {
			delete(p.cache, i)
		}
	}
}

// rowText returns the unstyled full-width text of row index and its state.
func (p *paneView) rowText(index int) (string, grid.RowState) {
	state, err := p.store.State(index)
	if err != nil {
		return fit("", p.pane.Width), grid.StatePlaceholder
	}

	switch state {
	case grid.StatePlaceholder:
		return fit(LoadingText, p.pane.Width), state
	case grid.StateFailed:
		return fit(FailedText, p.pane.Width), state
	}

	if text, ok := p.cache[index]; ok {
		return text, state
	}

	row, err := p.store.Row(index)
	if err != nil {
		return fit("", p.pane.Width), grid.StatePlaceholder
	}
	var sb strings.Builder
	for _, leaf := range p.pane.Leaves {
		sb.WriteString(fit(FormatValue(leaf.Value(row, index)), leaf.Width()))
	}
	text := sb.String()
	p.cache[index] = text
	return text, state
}

// renderRow is the list window's RenderFunc.
func (p *paneView) renderRow(index int, selected bool) string {
	text, state := p.rowText(index)
	text = clip(text, p.offset, p.viewWidth)

	switch {
	case selected:
		return selectedStyle.Render(text)
	case state == grid.StatePlaceholder:
		return loadingStyle.Render(text)
	case state == grid.StateFailed:
		return failedStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

// headerLines renders the pane header padded on top to depth lines.
func (p *paneView) headerLines(depth int) []string {
	lines := make([]string, 0, depth)
	blank := strings.Repeat(" ", p.viewWidth)
	for range depth - len(p.pane.Headers) {
		lines = append(lines, blank)
	}

	for level, row := range p.pane.Headers {
		var sb strings.Builder
		for _, cell := range row {
			if cell.Spacer {
				sb.WriteString(strings.Repeat(" ", cell.Width))
				continue
			}
			sb.WriteString(center(cell.Label, cell.Width))
		}
		text := clip(sb.String(), p.offset, p.viewWidth)
		if level == len(p.pane.Headers)-1 {
			lines = append(lines, headerStyle.Render(text))
		} else {
			lines = append(lines, groupHeaderStyle.Render(text))
		}
	}
	return lines
}

// body renders the viewport rows padded to height lines.
func (p *paneView) body(height int) []string {
	view := p.window.View()
	var lines []string
	if view != "" {
		lines = strings.Split(view, "\n")
	}
	blank := strings.Repeat(" ", p.viewWidth)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return lines
}
