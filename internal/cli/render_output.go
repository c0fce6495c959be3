package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rshade/lockgrid/internal/grid"
	"github.com/rshade/lockgrid/internal/tui"
)

// tabwriterPadding is the minimum padding between columns in table output.
const tabwriterPadding = 2

// renderedRow is one row of render output.
type renderedRow struct {
	Index  int            `json:"index"`
	State  string         `json:"state"`
	Fields map[string]any `json:"fields,omitempty"`

	cells []string
}

// renderJSONOutput is the document written by --output json.
type renderJSONOutput struct {
	Metadata renderMetadata `json:"metadata"`
	Columns  []string       `json:"columns"`
	Rows     []renderedRow  `json:"rows"`
}

type renderMetadata struct {
	TotalRows   int       `json:"total_rows"`
	Start       int       `json:"start"`
	Stop        int       `json:"stop"`
	Policy      string    `json:"policy"`
	GeneratedAt time.Time `json:"generated_at"`
}

// leafKey is the field name of a leaf in structured output.
func leafKey(l grid.Leaf) string {
	if l.Key != "" {
		return l.Key
	}
	return strings.ToLower(strings.ReplaceAll(l.Label(), " ", "_"))
}

// paneLeaves returns the rendered leaves of all panes, left to right.
func paneLeaves(coord *grid.PaneCoordinator) []grid.Leaf {
	var leaves []grid.Leaf
	for _, p := range coord.Panes() {
		leaves = append(leaves, p.Leaves...)
	}
	return leaves
}

// snapshot reads the rows of window from the store.
func snapshot(coord *grid.PaneCoordinator, window grid.Range) ([]renderedRow, error) {
	store := coord.Store()
	leaves := paneLeaves(coord)

	rows := make([]renderedRow, 0, window.Len())
	for i := window.Start; i < window.Stop; i++ {
		state, err := store.State(i)
		if err != nil {
			return nil, err
		}
		out := renderedRow{Index: i, State: state.String()}

		switch state {
		case grid.StateResolved:
			row, rowErr := store.Row(i)
			if rowErr != nil {
				return nil, rowErr
			}
			out.Fields = make(map[string]any, len(leaves))
			for _, leaf := range leaves {
				v := leaf.Value(row, i)
				out.Fields[leafKey(leaf)] = v
				out.cells = append(out.cells, tui.FormatValue(v))
			}
		case grid.StateFailed:
			out.cells = []string{tui.FailedText}
		default:
			out.cells = []string{tui.LoadingText}
		}
		rows = append(rows, out)
	}
	return rows, nil
}

// renderTable writes rows as an aligned text table with one column per leaf.
func renderTable(w io.Writer, coord *grid.PaneCoordinator, rows []renderedRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	leaves := paneLeaves(coord)
	labels := make([]string, len(leaves))
	rules := make([]string, len(leaves))
	for i, leaf := range leaves {
		labels[i] = strings.ToUpper(leaf.Label())
		rules[i] = strings.Repeat("-", len(labels[i]))
	}

	if _, err := fmt.Fprintln(tw, strings.Join(labels, "\t")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rules, "\t")); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row.cells, "\t")); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Index, err)
		}
	}
	return tw.Flush()
}

// renderJSON writes rows as one indented JSON document with metadata.
func renderJSON(w io.Writer, coord *grid.PaneCoordinator, window grid.Range, rows []renderedRow) error {
	leaves := paneLeaves(coord)
	columns := make([]string, len(leaves))
	for i, leaf := range leaves {
		columns[i] = leafKey(leaf)
	}
	if rows == nil {
		rows = []renderedRow{}
	}

	output := renderJSONOutput{
		Metadata: renderMetadata{
			TotalRows:   coord.RowCount(),
			Start:       window.Start,
			Stop:        window.Stop,
			Policy:      coord.Policy().String(),
			GeneratedAt: time.Now().UTC(),
		},
		Columns: columns,
		Rows:    rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderNDJSON writes each row as a separate JSON line.
func renderNDJSON(w io.Writer, rows []renderedRow) error {
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshaling row %d: %w", row.Index, err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}
