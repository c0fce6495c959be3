package grid

import "fmt"

// FetchPolicy decides how wide a fetch request is once the tracker knows the
// rendered window holds unresolved rows.
type FetchPolicy uint8

const (
	// PolicyWholeWindow requests the whole reported window, re-fetching rows
	// that are already resolved so that nearby gaps load in one batch.
	PolicyWholeWindow FetchPolicy = iota
	// PolicyUnresolvedSpan requests the smallest span of the window that
	// still contains every unresolved row.
	PolicyUnresolvedSpan
)

// String returns the policy name used in configuration.
func (p FetchPolicy) String() string {
	switch p {
	case PolicyWholeWindow:
		return "window"
	case PolicyUnresolvedSpan:
		return "unresolved"
	default:
		return fmt.Sprintf("FetchPolicy(%d)", uint8(p))
	}
}

// ParseFetchPolicy converts a configuration value to a FetchPolicy.
func ParseFetchPolicy(s string) (FetchPolicy, error) {
	switch s {
	case "", "window":
		return PolicyWholeWindow, nil
	case "unresolved":
		return PolicyUnresolvedSpan, nil
	default:
		return PolicyWholeWindow, fmt.Errorf("unknown fetch policy %q (want window or unresolved)", s)
	}
}

// FetchRequest describes a row range that must be loaded. Generation is
// assigned by the scheduler on Submit.
type FetchRequest struct {
	Range      Range
	Generation uint64
}

// WindowTracker turns rendered-window notifications into fetch requests.
type WindowTracker struct {
	store  *RowStore
	policy FetchPolicy
}

// NewWindowTracker creates a tracker reading from store.
func NewWindowTracker(store *RowStore, policy FetchPolicy) *WindowTracker {
	return &WindowTracker{store: store, policy: policy}
}

// Policy returns the active fetch policy.
func (t *WindowTracker) Policy() FetchPolicy {
	return t.policy
}

// OnVisibleRangeChanged returns a fetch request when at least one row of r is
// unresolved, and ok == false when r is fully resolved. The request always
// covers every unresolved row of r. The decision depends only on r and the
// store, so repeated calls without a store change agree.
func (t *WindowTracker) OnVisibleRangeChanged(r Range) (req FetchRequest, ok bool, err error) {
	span, unresolved, err := t.store.UnresolvedSpan(r)
	if err != nil {
		return FetchRequest{}, false, err
	}
	if !unresolved {
		return FetchRequest{}, false, nil
	}

	if t.policy == PolicyUnresolvedSpan {
		return FetchRequest{Range: span}, true, nil
	}
	return FetchRequest{Range: r}, true, nil
}
