package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the grid core.
var (
	// ErrIndexOutOfRange is returned for row indices outside [0, Len()).
	ErrIndexOutOfRange = errors.New("row index out of range")

	// ErrInvalidRange is returned for ranges violating 0 <= start <= stop <= Len().
	ErrInvalidRange = errors.New("invalid row range")

	// ErrFetchCancelled marks a fetch that was superseded or cancelled. It is
	// never returned by Settle.
	ErrFetchCancelled = errors.New("fetch cancelled")

	// ErrFetchFailed matches every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidColumn is returned by ValidateColumns.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrNilSource is returned when a coordinator is built without a data source.
	ErrNilSource = errors.New("data source cannot be nil")

	// errSlotOccupied signals a broken single-fetch invariant.
	errSlotOccupied = errors.New("fetch slot still occupied after cancel")
)

// FetchError reports a data source failure for a request range.
// The rows of Range stay unresolved and are marked Failed in the store.
type FetchError struct {
	Range      Range
	Generation uint64
	Attempts   int
	Err        error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %d for rows %s failed after %d attempt(s): %v",
		e.Generation, e.Range, e.Attempts, e.Err)
}

// Unwrap returns the underlying data source error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFetchFailed) true for any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
