package grid

import "fmt"

// RowState is the load state of one row.
type RowState uint8

const (
	// StatePlaceholder means the row has not been fetched yet.
	StatePlaceholder RowState = iota
	// StateResolved means the row holds data. It is terminal.
	StateResolved
	// StateFailed means the last fetch covering the row failed. The row is
	// still unresolved and will be fetched again when it is next rendered.
	StateFailed
)

// String returns the state name.
func (s RowState) String() string {
	switch s {
	case StatePlaceholder:
		return "placeholder"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("RowState(%d)", uint8(s))
	}
}

// RowReader is the read-only view of a RowStore handed to panes.
type RowReader interface {
	Len() int
	Row(index int) (Row, error)
	State(index int) (RowState, error)
	IsResolved(index int) (bool, error)
	Resolved() int
	Unresolved(r Range) (int, error)
	CheckRange(r Range) error
}

// RowStore holds the full row collection of one dataset load. Its size is
// fixed at creation. It is not safe for concurrent use: every call must come
// from the goroutine that coordinates rendering and settles fetches.
type RowStore struct {
	rows     []Row
	states   []RowState
	resolved int
}

// NewRowStore creates a store of n placeholder rows. Negative n is treated as 0.
func NewRowStore(n int) *RowStore {
	if n < 0 {
		n = 0
	}
	s := &RowStore{
		rows:   make([]Row, n),
		states: make([]RowState, n),
	}
	for i := range s.rows {
		s.rows[i] = Placeholder()
	}
	return s
}

// Len returns the number of rows.
func (s *RowStore) Len() int {
	return len(s.rows)
}

// Resolved returns how many rows hold data.
func (s *RowStore) Resolved() int {
	return s.resolved
}

// Row returns the row at index.
func (s *RowStore) Row(index int) (Row, error) {
	if err := s.checkIndex(index); err != nil {
		return Row{}, err
	}
	return s.rows[index], nil
}

// State returns the load state of the row at index.
func (s *RowStore) State(index int) (RowState, error) {
	if err := s.checkIndex(index); err != nil {
		return StatePlaceholder, err
	}
	return s.states[index], nil
}

// IsResolved reports whether the row at index holds data.
func (s *RowStore) IsResolved(index int) (bool, error) {
	st, err := s.State(index)
	if err != nil {
		return false, err
	}
	return st == StateResolved, nil
}

// ApplyResolved stores rows for r. Row r.Start+k receives rows[k]. Every
// other index of r that is not already resolved becomes a placeholder again,
// which clears a Failed state left by an earlier fetch. An input row that is
// itself a placeholder (Loading with no fields) counts as missing. Input rows
// beyond r are ignored and indices outside r are never touched.
func (s *RowStore) ApplyResolved(r Range, rows []Row) error {
	if err := s.CheckRange(r); err != nil {
		return err
	}

	for k := range r.Len() {
		i := r.Start + k
		if k < len(rows) && !isPlaceholderRow(rows[k]) {
			row := rows[k]
			row.Loading = false
			s.rows[i] = row
			if s.states[i] != StateResolved {
				s.states[i] = StateResolved
				s.resolved++
			}
			continue
		}
		if s.states[i] != StateResolved {
			s.rows[i] = Placeholder()
			s.states[i] = StatePlaceholder
		}
	}
	return nil
}

func isPlaceholderRow(row Row) bool {
	return row.Loading && len(row.Fields) == 0
}

// MarkFailed flags every unresolved row in r as Failed. Resolved rows are
// left alone.
func (s *RowStore) MarkFailed(r Range) error {
	if err := s.CheckRange(r); err != nil {
		return err
	}
	for i := r.Start; i < r.Stop; i++ {
		if s.states[i] != StateResolved {
			s.states[i] = StateFailed
		}
	}
	return nil
}

// Unresolved counts rows in r that do not hold data.
func (s *RowStore) Unresolved(r Range) (int, error) {
	if err := s.CheckRange(r); err != nil {
		return 0, err
	}
	count := 0
	for i := r.Start; i < r.Stop; i++ {
		if s.states[i] != StateResolved {
			count++
		}
	}
	return count, nil
}

// UnresolvedSpan returns the smallest range inside r that contains every
// unresolved row of r. ok is false when r is fully resolved.
func (s *RowStore) UnresolvedSpan(r Range) (Range, bool, error) {
	if err := s.CheckRange(r); err != nil {
		return Range{}, false, err
	}

	first := -1
	for i := r.Start; i < r.Stop; i++ {
		if s.states[i] != StateResolved {
			first = i
			break
		}
	}
	if first < 0 {
		return Range{}, false, nil
	}

	last := first
	for i := r.Stop - 1; i > first; i-- {
		if s.states[i] != StateResolved {
			last = i
			break
		}
	}
	return Range{Start: first, Stop: last + 1}, true, nil
}

// CheckRange validates r against the store size.
func (s *RowStore) CheckRange(r Range) error {
	if r.Start < 0 || r.Start > r.Stop || r.Stop > len(s.rows) {
		return fmt.Errorf("%w: %s with %d rows", ErrInvalidRange, r, len(s.rows))
	}
	return nil
}

func (s *RowStore) checkIndex(index int) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.rows))
	}
	return nil
}
