package source

import "github.com/rshade/lockgrid/internal/grid"

// Column widths in cells.
const (
	indexWidth  = 9
	nameWidth   = 12
	numberWidth = 8
	statusWidth = 14
)

// FieldLoading names the hidden column that carries the row loading flag.
const FieldLoading = "loading"

// Columns returns the column layout for synthetic rows: a hidden loading
// column, the row index pinned left, two grouped entities in the center and
// the status pinned right.
func Columns() []grid.TopColumn {
	return []grid.TopColumn{
		{Column: grid.Leaf{
			Key:      FieldLoading,
			Hidden:   true,
			Accessor: func(row grid.Row, _ int) any { return row.Loading },
		}},
		{
			Column: grid.Leaf{
				Header:    "Row Index",
				Accessor:  func(_ grid.Row, index int) any { return index },
				CellWidth: indexWidth,
			},
			Pin: grid.PinLeft,
		},
		{Column: grid.Group{
			Header: "A entity",
			Children: []grid.Column{
				grid.Leaf{Header: "A1 prop", Key: FieldFirstName, CellWidth: nameWidth},
				grid.Leaf{Header: "A2 prop", Key: FieldLastName, CellWidth: nameWidth},
			},
		}},
		{Column: grid.Group{
			Header: "B entity",
			Children: []grid.Column{
				grid.Leaf{Header: "B1 prop", Key: FieldAge, CellWidth: numberWidth},
				grid.Leaf{Header: "B2 prop", Key: FieldVisits, CellWidth: numberWidth},
				grid.Leaf{Header: "B3 prop", Key: FieldProgress, CellWidth: numberWidth},
			},
		}},
		{
			Column: grid.Leaf{Header: "Status", Key: FieldStatus, CellWidth: statusWidth},
			Pin:    grid.PinRight,
		},
	}
}
