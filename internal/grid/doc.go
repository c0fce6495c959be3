// Package grid implements the windowed table core: a fixed-size row store with
// placeholder rows, a column model split into pinned panes, a tracker that
// decides when the rendered window needs data, and a single-slot fetch
// scheduler that cancels superseded fetches.
//
// The package has no UI dependencies. A renderer reports which rows it drew
// (including overscan) through PaneCoordinator.OnItemsRendered, receives a
// PendingFetch when data is needed, and hands the fetch's Settlement back to
// PaneCoordinator.Settle on the same goroutine that reads the store:
//
//	pending, err := coord.OnItemsRendered(ctx, grid.PaneCenter, grid.Range{Start: 0, Stop: 35})
//	if err == nil && pending != nil {
//		err = coord.Settle(pending.Wait())
//	}
//
// Only the newest fetch is ever applied. Submitting a new request cancels the
// previous one, and a cancelled fetch's settlement is dropped silently.
package grid
