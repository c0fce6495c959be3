package grid

import "fmt"

// Field is one key/value pair of a resolved row.
type Field struct {
	Key   string
	Value any
}

// Row is a single table row. Its identity is its position in the RowStore.
// A resolved row has Loading == false and carries every field; a placeholder
// has Loading == true and no fields.
type Row struct {
	Loading bool
	Fields  []Field
}

// Placeholder returns a row whose data has not arrived yet.
func Placeholder() Row {
	return Row{Loading: true}
}

// NewRow builds a resolved row from ordered fields.
func NewRow(fields ...Field) Row {
	return Row{Fields: fields}
}

// Value returns the value stored under key.
func (r Row) Value(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Range is a half-open interval of row indices [Start, Stop).
type Range struct {
	Start int
	Stop  int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Stop < r.Start {
		return 0
	}
	return r.Stop - r.Start
}

// Empty reports whether the range has no indices.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether index lies inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.Stop
}

// Covers reports whether r includes every index of other.
func (r Range) Covers(other Range) bool {
	if other.Empty() {
		return true
	}
	return r.Start <= other.Start && other.Stop <= r.Stop
}

// String formats the range as [start,stop).
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.Stop)
}
