package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultOverscan is the number of extra rows reported above and below the viewport.
const DefaultOverscan = 5

// RenderFunc renders the row at index. The selected parameter indicates
// whether the row holds the cursor.
type RenderFunc func(index int, selected bool) string

// ItemsRenderedMsg reports the rendered window of a Window, overscan included,
// as the half-open interval [Start, Stop).
type ItemsRenderedMsg struct {
	ID    string
	Start int
	Stop  int
}

// Window is a fixed-row-height virtual list.
type Window struct {
	// id tags the ItemsRenderedMsg values of this window.
	id string

	// count is the total number of rows.
	count int

	// renderFunc renders a single row.
	renderFunc RenderFunc

	// selected is the cursor row index (0-based).
	selected int

	// top is the first row inside the viewport.
	top int

	// height is the viewport height in rows.
	height int

	// width is the viewport width in cells.
	width int

	// overscan is the number of extra rows reported beyond each viewport edge.
	overscan int

	// reportedStart and reportedStop are the last window sent in an
	// ItemsRenderedMsg; reported is false until the first one.
	reportedStart int
	reportedStop  int
	reported      bool
}

// NewWindow creates a window over count rows.
func NewWindow(id string, count, height, width int, renderFunc RenderFunc) *Window {
	w := &Window{
		id:         id,
		count:      max(count, 0),
		renderFunc: renderFunc,
		height:     max(height, 1),
		width:      width,
		overscan:   DefaultOverscan,
	}
	w.clamp()
	return w
}

// SetOverscan sets the overscan row count.
func (w *Window) SetOverscan(n int) {
	w.overscan = max(n, 0)
}

// SetSize changes the viewport size, keeping the cursor visible.
func (w *Window) SetSize(width, height int) {
	w.width = width
	w.height = max(height, 1)
	w.clamp()
}

// SetCount changes the row count, as after a dataset reset, and moves the
// cursor back to the first row.
func (w *Window) SetCount(count int) {
	w.count = max(count, 0)
	w.selected = 0
	w.top = 0
	w.reported = false
	w.clamp()
}

// Init returns the first ItemsRenderedMsg.
func (w *Window) Init() tea.Cmd {
	return w.Notify()
}

// Update handles navigation keys and returns an ItemsRenderedMsg command when
// the rendered window moved.
func (w *Window) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		w.handleKeyMsg(key)
		return w, w.Notify()
	}
	return w, nil
}

// handleKeyMsg processes keyboard input for navigation.
//
//nolint:exhaustive // Only navigation keys are handled.
func (w *Window) handleKeyMsg(msg tea.KeyMsg) {
	if w.count == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		w.SetSelected(w.selected - 1)
	case tea.KeyDown:
		w.SetSelected(w.selected + 1)
	case tea.KeyPgUp:
		w.SetSelected(w.selected - w.height)
	case tea.KeyPgDown:
		w.SetSelected(w.selected + w.height)
	case tea.KeyHome:
		w.SetSelected(0)
	case tea.KeyEnd:
		w.SetSelected(w.count - 1)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		switch msg.Runes[0] {
		case 'j':
			w.SetSelected(w.selected + 1)
		case 'k':
			w.SetSelected(w.selected - 1)
		case 'g':
			w.SetSelected(0)
		case 'G':
			w.SetSelected(w.count - 1)
		}
	default:
	}
}

// SetSelected moves the cursor to index, capped to the valid rows, and
// scrolls the least amount needed to keep it visible.
func (w *Window) SetSelected(index int) {
	w.selected = index
	w.clamp()
}

// ScrollTo puts index at the top of the viewport, as far as the row count
// allows, and moves the cursor there.
func (w *Window) ScrollTo(index int) {
	w.top = index
	w.selected = index
	w.clamp()
}

// clamp restores the cursor and viewport invariants:
// 0 <= selected < count and top <= selected < top+height.
func (w *Window) clamp() {
	if w.count == 0 {
		w.selected, w.top = 0, 0
		return
	}

	w.selected = min(max(w.selected, 0), w.count-1)

	if w.selected < w.top {
		w.top = w.selected
	}
	if w.selected >= w.top+w.height {
		w.top = w.selected - w.height + 1
	}
	w.top = min(max(w.top, 0), max(w.count-w.height, 0))
	if w.selected < w.top {
		w.top = w.selected
	}
}

// Notify returns a command emitting an ItemsRenderedMsg if the rendered window
// differs from the last one reported, and nil otherwise.
func (w *Window) Notify() tea.Cmd {
	start, stop := w.RenderedFrom(), w.RenderedTo()
	if w.reported && start == w.reportedStart && stop == w.reportedStop {
		return nil
	}
	w.reported = true
	w.reportedStart, w.reportedStop = start, stop

	msg := ItemsRenderedMsg{ID: w.id, Start: start, Stop: stop}
	return func() tea.Msg { return msg }
}

// View renders the rows inside the viewport, one per line.
func (w *Window) View() string {
	from, to := w.VisibleFrom(), w.VisibleTo()
	if from == to {
		return ""
	}

	var sb strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			sb.WriteByte('\n')
		}
		sb.WriteString(w.renderFunc(i, i == w.selected))
	}
	return sb.String()
}

// ID returns the window id.
func (w *Window) ID() string {
	return w.id
}

// RowCount returns the total number of rows.
func (w *Window) RowCount() int {
	return w.count
}

// Selected returns the cursor row index.
func (w *Window) Selected() int {
	return w.selected
}

// VisibleFrom returns the first row inside the viewport (inclusive).
func (w *Window) VisibleFrom() int {
	return w.top
}

// VisibleTo returns the row after the last one inside the viewport (exclusive).
func (w *Window) VisibleTo() int {
	return min(w.top+w.height, w.count)
}

// RenderedFrom returns the first row of the rendered window, overscan included.
func (w *Window) RenderedFrom() int {
	return max(w.VisibleFrom()-w.overscan, 0)
}

// RenderedTo returns the end of the rendered window, overscan included.
func (w *Window) RenderedTo() int {
	return min(w.VisibleTo()+w.overscan, w.count)
}

// Height returns the viewport height.
func (w *Window) Height() int {
	return w.height
}

// Width returns the viewport width.
func (w *Window) Width() int {
	return w.width
}
