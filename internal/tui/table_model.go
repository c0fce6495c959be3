package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/lockgrid/internal/grid"
	"github.com/rshade/lockgrid/internal/logging"
	listview "github.com/rshade/lockgrid/internal/tui/list"
)

// Default dimensions for the table model.
const (
	defaultWidth  = 100
	defaultHeight = 18

	// chromeLines is the number of lines below the body: status and help.
	chromeLines = 2

	// horizontalStep is how many cells one left/right key press scrolls.
	horizontalStep = 4
)

// fetchSettledMsg carries a fetch outcome back to the update loop, which is
// the only goroutine allowed to touch the row store.
type fetchSettledMsg struct {
	settlement grid.Settlement
}

// TableOptions configures a TableModel.
type TableOptions struct {
	// ViewportHeight is the body height in rows before the first resize.
	ViewportHeight int
	// Overscan is the number of rows reported beyond each viewport edge.
	Overscan int
}

// TableModel is the Bubble Tea model for the windowed three-pane table.
//
// Each pane owns a list window; all windows receive the same navigation keys
// and therefore scroll in unison. Every window reports its rendered range, and
// the coordinator acts only on the authority pane's report.
type TableModel struct {
	ctx    context.Context
	coord  *grid.PaneCoordinator
	panes  []*paneView
	logger zerolog.Logger

	// waiting is the fetch a settle command is already waiting on.
	waiting *grid.PendingFetch

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	overscan int

	fetchErr error
	err      error
	quitting bool
}

// NewTableModel creates a table model over coord.
func NewTableModel(ctx context.Context, coord *grid.PaneCoordinator, opts TableOptions) *TableModel {
	height := opts.ViewportHeight
	if height <= 0 {
		height = defaultHeight - chromeLines
	}

	m := &TableModel{
		ctx:      ctx,
		coord:    coord,
		logger:   logging.ComponentLogger(logging.FromContext(ctx), "tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loadingStyle)),
		width:    defaultWidth,
		overscan: max(opts.Overscan, 0),
	}

	for _, pane := range coord.Panes() {
		pv := newPaneView(pane, coord.Store(), height, m.overscan)
		coord.Register(pv)
		m.panes = append(m.panes, pv)
	}
	m.height = height + m.headerDepth() + chromeLines
	m.layout()
	return m
}

// Init starts the spinner and reports each pane's initial window.
func (m *TableModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	for _, p := range m.panes {
		cmds = append(cmds, p.window.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, m.notifyAll()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case listview.ItemsRenderedMsg:
		return m, m.handleItemsRendered(msg)

	case fetchSettledMsg:
		return m, m.handleSettled(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *TableModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.coord.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, m.notifyAll()

	case key.Matches(msg, m.keys.Left):
		m.scrollCenter(-horizontalStep)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.scrollCenter(horizontalStep)
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	var cmds []tea.Cmd
	for _, p := range m.panes {
		_, cmd := p.window.Update(msg)
		p.evictOutside()
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleItemsRendered forwards a pane's rendered window to the coordinator
// and, when a new fetch starts, waits for it off the update loop.
func (m *TableModel) handleItemsRendered(msg listview.ItemsRenderedMsg) tea.Cmd {
	side, ok := paneSideFromID(msg.ID)
	if !ok {
		return nil
	}

	pending, err := m.coord.OnItemsRendered(m.ctx, side, grid.Range{Start: msg.Start, Stop: msg.Stop})
	if err != nil {
		m.err = err
		m.logger.Error().Err(err).Str("pane", msg.ID).Msg("rendered window rejected")
		return nil
	}
	if pending == nil || pending == m.waiting {
		return nil
	}

	m.waiting = pending
	return waitForFetch(pending)
}

func (m *TableModel) handleSettled(msg fetchSettledMsg) tea.Cmd {
	if msg.settlement.Fetch == m.waiting {
		m.waiting = nil
	}

	err := m.coord.Settle(msg.settlement)
	switch {
	case err == nil:
		if msg.settlement.Fetch != nil && msg.settlement.Fetch.Settled() {
			m.fetchErr = nil
		}
	case errors.Is(err, grid.ErrFetchFailed):
		m.fetchErr = err
	default:
		m.err = err
		m.logger.Error().Err(err).Msg("settling fetch")
	}
	return nil
}

// waitForFetch blocks on the fetch in a command goroutine and delivers its
// settlement as a message. Cancelled fetches still deliver one, which Settle
// discards.
func waitForFetch(p *grid.PendingFetch) tea.Cmd {
	return func() tea.Msg {
		return fetchSettledMsg{settlement: p.Wait()}
	}
}

// reload discards all loaded rows, as a new dataset load would.
func (m *TableModel) reload() tea.Cmd {
	m.coord.Reset(m.coord.RowCount())
	m.waiting = nil
	m.fetchErr = nil
	for _, p := range m.panes {
		p.reset(m.coord.Store())
	}
	return m.notifyAll()
}

func (m *TableModel) notifyAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panes))
	for _, p := range m.panes {
		p.evictOutside()
		cmds = append(cmds, p.window.Notify())
	}
	return tea.Batch(cmds...)
}

func (m *TableModel) scrollCenter(delta int) {
	for _, p := range m.panes {
		if p.pane.Side == grid.PaneCenter {
			p.scroll(delta)
		}
	}
}

// layout sizes every pane from the terminal dimensions. Pinned panes keep
// their full width; the center pane gets what is left.
func (m *TableModel) layout() {
	bodyHeight := max(m.height-m.headerDepth()-m.chromeHeight(), 1)

	fixed := 0
	separators := max(len(m.panes)-1, 0)
	for _, p := range m.panes {
		if p.pane.Side != grid.PaneCenter {
			fixed += p.pane.Width
		}
	}

	for _, p := range m.panes {
		if p.pane.Side == grid.PaneCenter {
			p.setViewWidth(m.width - fixed - separators)
		} else {
			p.setViewWidth(p.pane.Width)
		}
		p.window.SetSize(p.viewWidth, bodyHeight)
	}
}

func (m *TableModel) chromeHeight() int {
	if m.help.ShowAll {
		return 1 + len(m.keys.FullHelp()[0])
	}
	return chromeLines
}

func (m *TableModel) headerDepth() int {
	depth := 0
	for _, p := range m.panes {
		depth = max(depth, len(p.pane.Headers))
	}
	return depth
}

// View renders the header, the three panes side by side, the status line and
// the help line.
func (m *TableModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.panes) == 0 {
		return statusStyle.Render("no columns to display") + "\n"
	}

	depth := m.headerDepth()
	bodyHeight := m.panes[0].window.Height()

	columns := make([]string, 0, 2*len(m.panes))
	for i, p := range m.panes {
		if i > 0 {
			sep := strings.Repeat(paneSeparator+"\n", depth+bodyHeight)
			columns = append(columns, separatorStyle.Render(strings.TrimSuffix(sep, "\n")))
		}
		lines := append(p.headerLines(depth), p.body(bodyHeight)...)
		columns = append(columns, strings.Join(lines, "\n"))
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *TableModel) statusLine() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}

	visible := m.coord.Visible()
	parts := []string{
		fmt.Sprintf("%s/%s rows loaded", FormatNumber(m.coord.ResolvedCount()), FormatNumber(m.coord.RowCount())),
		fmt.Sprintf("window %s", visible),
	}
	if m.coord.RowCount() > 0 && len(m.panes) > 0 {
		parts = append(parts, fmt.Sprintf("row %s", FormatNumber(m.panes[0].window.Selected())))
	}
	if p := m.coord.Pending(); p != nil {
		parts = append(parts, fmt.Sprintf("%s fetching %s", m.spinner.View(), p.Request().Range))
	}

	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.fetchErr != nil {
		line += "  " + errorStyle.Render(m.fetchErr.Error())
	}
	return line
}

// Err returns the last non-recoverable error, if any.
func (m *TableModel) Err() error {
	return m.err
}

func paneSideFromID(id string) (grid.PaneSide, bool) {
	for _, side := range []grid.PaneSide{grid.PaneLeft, grid.PaneCenter, grid.PaneRight} {
		if side.String() == id {
			return side, true
		}
	}
	return 0, false
}
