package grid

import (
	"fmt"
	"strings"
)

// DefaultColumnWidth is the width in cells of a leaf column without an
// explicit width.
const DefaultColumnWidth = 12

// Pin says which edge a top-level column group is fixed to.
type Pin uint8

const (
	// PinNone places the column in the horizontally scrolling center pane.
	PinNone Pin = iota
	// PinLeft fixes the column to the left edge.
	PinLeft
	// PinRight fixes the column to the right edge.
	PinRight
)

// String returns the pin side name.
func (p Pin) String() string {
	switch p {
	case PinNone:
		return "center"
	case PinLeft:
		return "left"
	case PinRight:
		return "right"
	default:
		return fmt.Sprintf("Pin(%d)", uint8(p))
	}
}

// ParsePin converts "left", "right" or "" (center) to a Pin.
func ParsePin(s string) (Pin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "none":
		return PinNone, nil
	case "left":
		return PinLeft, nil
	case "right":
		return PinRight, nil
	default:
		return PinNone, fmt.Errorf("%w: unknown pin side %q", ErrInvalidColumn, s)
	}
}

// Accessor computes a cell value from a row and its index.
type Accessor func(row Row, index int) any

// Column is either a Leaf or a Group. The interface is sealed.
type Column interface {
	// Label is the header text.
	Label() string
	// Width is the rendered width in cells; groups sum their visible leaves.
	Width() int

	column()
}

// Leaf is a column that renders one cell per row. Its value comes from
// Accessor when set, otherwise from the row field named Key.
type Leaf struct {
	Key       string
	Header    string
	Accessor  Accessor
	CellWidth int
	// Hidden leaves take part in the row model but are never drawn.
	Hidden bool
}

// Group is a header spanning its children.
type Group struct {
	Header   string
	Children []Column
}

// TopColumn is a top-level column with its pin side. Nested columns are plain
// Column values, so a pin can only ever be set at the top level.
type TopColumn struct {
	Column Column
	Pin    Pin
}

// Label returns Header, falling back to Key.
func (l Leaf) Label() string {
	if l.Header != "" {
		return l.Header
	}
	return l.Key
}

// Width returns CellWidth or DefaultColumnWidth. Hidden leaves are zero wide.
func (l Leaf) Width() int {
	if l.Hidden {
		return 0
	}
	if l.CellWidth > 0 {
		return l.CellWidth
	}
	return DefaultColumnWidth
}

// Value returns the cell value for row at index.
func (l Leaf) Value(row Row, index int) any {
	if l.Accessor != nil {
		return l.Accessor(row, index)
	}
	v, _ := row.Value(l.Key)
	return v
}

func (Leaf) column() {}

// Label returns the group header.
func (g Group) Label() string {
	return g.Header
}

// Width sums the widths of the visible leaves below the group.
func (g Group) Width() int {
	total := 0
	for _, c := range g.Children {
		total += c.Width()
	}
	return total
}

func (Group) column() {}

// Panes is the result of Partition.
type Panes struct {
	Left   []Column
	Center []Column
	Right  []Column
	// Hidden holds top-level hidden leaves, such as a column that only exists
	// to carry the loading flag.
	Hidden []Column
}

// Partition splits top-level columns by pin side, preserving input order
// inside each bucket. It is a pure function of cols.
func Partition(cols []TopColumn) Panes {
	var p Panes
	for _, tc := range cols {
		if leaf, ok := tc.Column.(Leaf); ok && leaf.Hidden {
			p.Hidden = append(p.Hidden, tc.Column)
			continue
		}
		switch tc.Pin {
		case PinLeft:
			p.Left = append(p.Left, tc.Column)
		case PinRight:
			p.Right = append(p.Right, tc.Column)
		default:
			p.Center = append(p.Center, tc.Column)
		}
	}
	return p
}

// ValidateColumns checks that every leaf has a key or an accessor, every
// group has children and every pin side is known.
func ValidateColumns(cols []TopColumn) error {
	for i, tc := range cols {
		if tc.Pin > PinRight {
			return fmt.Errorf("%w: column %d has %s", ErrInvalidColumn, i, tc.Pin)
		}
		if err := validateColumn(tc.Column, fmt.Sprintf("column %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateColumn(c Column, path string) error {
	switch col := c.(type) {
	case Leaf:
		if col.Key == "" && col.Accessor == nil {
			return fmt.Errorf("%w: %s needs a key or an accessor", ErrInvalidColumn, path)
		}
	case Group:
		if len(col.Children) == 0 {
			return fmt.Errorf("%w: %s (%q) has no children", ErrInvalidColumn, path, col.Header)
		}
		for i, child := range col.Children {
			if err := validateColumn(child, fmt.Sprintf("%s.%d", path, i)); err != nil {
				return err
			}
		}
	case nil:
		return fmt.Errorf("%w: %s is nil", ErrInvalidColumn, path)
	}
	return nil
}

// Leaves flattens cols into the visible leaf columns, left to right.
func Leaves(cols []Column) []Leaf {
	var out []Leaf
	for _, c := range cols {
		switch col := c.(type) {
		case Leaf:
			if !col.Hidden {
				out = append(out, col)
			}
		case Group:
			out = append(out, Leaves(col.Children)...)
		}
	}
	return out
}

// TotalWidth returns the summed width of the visible leaves of cols.
func TotalWidth(cols []Column) int {
	total := 0
	for _, c := range cols {
		total += c.Width()
	}
	return total
}

// HeaderCell is one cell of a header row.
type HeaderCell struct {
	Label string
	Width int
	// Spacer cells fill the space above a leaf that is shallower than the
	// deepest group.
	Spacer bool
}

// HeaderRows lays out the header grid for cols: one row per nesting level,
// group cells spanning their children, leaf labels on the bottom row.
// Every row has the same total width as TotalWidth(cols).
func HeaderRows(cols []Column) [][]HeaderCell {
	depth := 0
	for _, c := range cols {
		depth = max(depth, columnDepth(c))
	}
	if depth == 0 {
		return nil
	}

	rows := make([][]HeaderCell, depth)
	var place func(c Column, level int)
	place = func(c Column, level int) {
		if c.Width() == 0 {
			return
		}
		switch col := c.(type) {
		case Leaf:
			for l := level; l < depth-1; l++ {
				rows[l] = append(rows[l], HeaderCell{Width: col.Width(), Spacer: true})
			}
			rows[depth-1] = append(rows[depth-1], HeaderCell{Label: col.Label(), Width: col.Width()})
		case Group:
			rows[level] = append(rows[level], HeaderCell{Label: col.Label(), Width: col.Width()})
			for _, child := range col.Children {
				place(child, level+1)
			}
		}
	}
	for _, c := range cols {
		place(c, 0)
	}
	return rows
}

func columnDepth(c Column) int {
	switch col := c.(type) {
	case Leaf:
		if col.Hidden {
			return 0
		}
		return 1
	case Group:
		deepest := 0
		for _, child := range col.Children {
			deepest = max(deepest, columnDepth(child))
		}
		if deepest == 0 {
			return 0
		}
		return deepest + 1
	default:
		return 0
	}
}
