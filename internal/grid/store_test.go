package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lockgrid/internal/grid"
)

func resolvedRows(start, stop int) []grid.Row {
	rows := make([]grid.Row, 0, stop-start)
	for i := start; i < stop; i++ {
		rows = append(rows, grid.NewRow(grid.Field{Key: "n", Value: i}))
	}
	return rows
}

func TestNewRowStore(t *testing.T) {
	store := grid.NewRowStore(10)

	assert.Equal(t, 10, store.Len())
	assert.Equal(t, 0, store.Resolved())
	for i := range 10 {
		row, err := store.Row(i)
		require.NoError(t, err)
		assert.True(t, row.Loading)
		assert.Empty(t, row.Fields)

		state, err := store.State(i)
		require.NoError(t, err)
		assert.Equal(t, grid.StatePlaceholder, state)
	}

	assert.Equal(t, 0, grid.NewRowStore(-3).Len())
}

func TestRowStore_ApplyResolved(t *testing.T) {
	t.Run("resolves rows inside the range only", func(t *testing.T) {
		store := grid.NewRowStore(20)
		r := grid.Range{Start: 5, Stop: 10}

		require.NoError(t, store.ApplyResolved(r, resolvedRows(5, 10)))

		for i := range 20 {
			ok, err := store.IsResolved(i)
			require.NoError(t, err)
			assert.Equal(t, r.Contains(i), ok, "row %d", i)
		}
		assert.Equal(t, 5, store.Resolved())

		row, err := store.Row(7)
		require.NoError(t, err)
		assert.False(t, row.Loading)
		v, ok := row.Value("n")
		require.True(t, ok)
		assert.Equal(t, 7, v)
	})

	t.Run("short input leaves the tail as placeholders", func(t *testing.T) {
		store := grid.NewRowStore(10)

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 6}, resolvedRows(0, 2)))

		for i := range 6 {
			ok, err := store.IsResolved(i)
			require.NoError(t, err)
			assert.Equal(t, i < 2, ok, "row %d", i)
		}
		row, err := store.Row(4)
		require.NoError(t, err)
		assert.True(t, row.Loading)
	})

	t.Run("short input never regresses resolved rows", func(t *testing.T) {
		store := grid.NewRowStore(10)
		require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 10}, resolvedRows(0, 10)))

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 10}, resolvedRows(0, 3)))

		assert.Equal(t, 10, store.Resolved())
		ok, err := store.IsResolved(9)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("extra input rows are ignored", func(t *testing.T) {
		store := grid.NewRowStore(10)

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 2, Stop: 4}, resolvedRows(2, 9)))

		assert.Equal(t, 2, store.Resolved())
		ok, err := store.IsResolved(4)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rows are stored as resolved even if input claims loading", func(t *testing.T) {
		store := grid.NewRowStore(3)
		in := []grid.Row{{Loading: true, Fields: []grid.Field{{Key: "a", Value: 1}}}}

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 1, Stop: 2}, in))

		row, err := store.Row(1)
		require.NoError(t, err)
		assert.False(t, row.Loading)
	})

	t.Run("short input resets failed rows in the tail", func(t *testing.T) {
		store := grid.NewRowStore(10)
		require.NoError(t, store.MarkFailed(grid.Range{Start: 0, Stop: 4}))

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 4}, resolvedRows(0, 1)))

		want := []grid.RowState{grid.StateResolved, grid.StatePlaceholder, grid.StatePlaceholder, grid.StatePlaceholder}
		for i, w := range want {
			st, err := store.State(i)
			require.NoError(t, err)
			assert.Equal(t, w, st, "row %d", i)
		}
		row, err := store.Row(2)
		require.NoError(t, err)
		assert.True(t, row.Loading)
	})

	t.Run("placeholder input rows are not resolved", func(t *testing.T) {
		store := grid.NewRowStore(3)
		in := []grid.Row{grid.Placeholder(), grid.NewRow(grid.Field{Key: "a", Value: 1})}

		require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 2}, in))

		assert.Equal(t, 1, store.Resolved())
		st, err := store.State(0)
		require.NoError(t, err)
		assert.Equal(t, grid.StatePlaceholder, st)
		st, err = store.State(1)
		require.NoError(t, err)
		assert.Equal(t, grid.StateResolved, st)
	})

	t.Run("invalid range", func(t *testing.T) {
		store := grid.NewRowStore(10)

		err := store.ApplyResolved(grid.Range{Start: 8, Stop: 11}, nil)
		require.ErrorIs(t, err, grid.ErrInvalidRange)

		err = store.ApplyResolved(grid.Range{Start: 5, Stop: 4}, nil)
		require.ErrorIs(t, err, grid.ErrInvalidRange)
	})
}

func TestRowStore_OutOfRange(t *testing.T) {
	store := grid.NewRowStore(5)

	for _, index := range []int{-1, 5, 100} {
		_, err := store.Row(index)
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)

		_, err = store.IsResolved(index)
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)
	}
}

func TestRowStore_MarkFailed(t *testing.T) {
	store := grid.NewRowStore(10)
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 3}, resolvedRows(0, 3)))

	require.NoError(t, store.MarkFailed(grid.Range{Start: 0, Stop: 6}))

	for i, want := range []grid.RowState{
		grid.StateResolved, grid.StateResolved, grid.StateResolved,
		grid.StateFailed, grid.StateFailed, grid.StateFailed,
		grid.StatePlaceholder,
	} {
		state, err := store.State(i)
		require.NoError(t, err)
		assert.Equal(t, want, state, "row %d", i)
	}

	// A later fetch resolves failed rows.
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 3, Stop: 6}, resolvedRows(3, 6)))
	state, err := store.State(4)
	require.NoError(t, err)
	assert.Equal(t, grid.StateResolved, state)
	assert.Equal(t, 6, store.Resolved())
}

func TestRowStore_UnresolvedSpan(t *testing.T) {
	store := grid.NewRowStore(20)
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 0, Stop: 5}, resolvedRows(0, 5)))
	require.NoError(t, store.ApplyResolved(grid.Range{Start: 8, Stop: 20}, resolvedRows(8, 20)))

	tests := []struct {
		name   string
		in     grid.Range
		want   grid.Range
		wantOK bool
		count  int
	}{
		{name: "gap in the middle", in: grid.Range{Start: 0, Stop: 20}, want: grid.Range{Start: 5, Stop: 8}, wantOK: true, count: 3},
		{name: "fully resolved", in: grid.Range{Start: 10, Stop: 15}, wantOK: false},
		{name: "partial overlap", in: grid.Range{Start: 6, Stop: 12}, want: grid.Range{Start: 6, Stop: 8}, wantOK: true, count: 2},
		{name: "empty range", in: grid.Range{Start: 4, Stop: 4}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok, err := store.UnresolvedSpan(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, span)
			}

			n, err := store.Unresolved(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestRange(t *testing.T) {
	r := grid.Range{Start: 3, Stop: 7}

	assert.Equal(t, 4, r.Len())
	assert.False(t, r.Empty())
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(7))
	assert.True(t, r.Covers(grid.Range{Start: 4, Stop: 7}))
	assert.False(t, r.Covers(grid.Range{Start: 2, Stop: 5}))
	assert.True(t, r.Covers(grid.Range{Start: 50, Stop: 50}))
	assert.Equal(t, "[3,7)", r.String())
	assert.Equal(t, 0, grid.Range{Start: 5, Stop: 1}.Len())
}
