package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lockgrid/internal/grid"
	"github.com/rshade/lockgrid/internal/source"
)

func TestSynthetic_RequestRange(t *testing.T) {
	src := source.NewSynthetic(source.WithLatency(0), source.WithChunkSize(7))

	rows, err := src.RequestRange(context.Background(), 95, 130)

	require.NoError(t, err)
	require.Len(t, rows, 35)
	for k, row := range rows {
		assert.False(t, row.Loading)
		assert.Equal(t, src.Row(95+k), row, "row %d", 95+k)
	}
}

func TestSynthetic_RowShape(t *testing.T) {
	src := source.NewSynthetic()
	row := src.Row(42)

	keys := make([]string, 0, len(row.Fields))
	for _, f := range row.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		source.FieldFirstName, source.FieldLastName, source.FieldAge,
		source.FieldVisits, source.FieldProgress, source.FieldStatus,
	}, keys)

	age, _ := row.Value(source.FieldAge)
	assert.GreaterOrEqual(t, age.(int), 0)
	assert.Less(t, age.(int), 30)

	status, _ := row.Value(source.FieldStatus)
	assert.Contains(t, []string{source.StatusRelationship, source.StatusComplicated, source.StatusSingle}, status)
}

func TestSynthetic_Deterministic(t *testing.T) {
	a := source.NewSynthetic(source.WithSeed(7))
	b := source.NewSynthetic(source.WithSeed(7))
	c := source.NewSynthetic(source.WithSeed(8))

	assert.Equal(t, a.Row(1234), b.Row(1234))

	differs := false
	for i := range 20 {
		if !assert.ObjectsAreEqual(a.Row(i), c.Row(i)) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seeds should produce different rows")
}

func TestSynthetic_CancelStopsLatency(t *testing.T) {
	src := source.NewSynthetic(source.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := src.RequestRange(ctx, 0, 10)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("request did not return after cancel")
	}
}

func TestSynthetic_InvalidRange(t *testing.T) {
	src := source.NewSynthetic(source.WithLatency(0))

	_, err := src.RequestRange(context.Background(), 10, 5)
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	rows, err := src.RequestRange(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlaky(t *testing.T) {
	src := source.NewFlaky(source.NewSynthetic(source.WithLatency(0)), 3)
	ctx := context.Background()

	var failures int
	for range 9 {
		_, err := src.RequestRange(ctx, 0, 2)
		if err != nil {
			require.True(t, errors.Is(err, source.ErrInjected))
			failures++
		}
	}
	assert.Equal(t, 3, failures)

	never := source.NewFlaky(source.NewSynthetic(source.WithLatency(0)), 0)
	for range 5 {
		_, err := never.RequestRange(ctx, 0, 1)
		require.NoError(t, err)
	}
}

func TestColumns(t *testing.T) {
	cols := source.Columns()
	require.NoError(t, grid.ValidateColumns(cols))

	panes := grid.Partition(cols)
	require.Len(t, panes.Left, 1)
	assert.Equal(t, "Row Index", panes.Left[0].Label())
	require.Len(t, panes.Center, 2)
	require.Len(t, panes.Right, 1)
	require.Len(t, panes.Hidden, 1)

	index := grid.Leaves(panes.Left)[0]
	assert.Equal(t, 17, index.Value(grid.Placeholder(), 17))

	hidden := panes.Hidden[0].(grid.Leaf)
	assert.Equal(t, true, hidden.Value(grid.Placeholder(), 0))
}
