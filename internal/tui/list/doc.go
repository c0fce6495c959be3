// Package listview provides the windowed rendering primitive behind each
// table pane.
//
// A Window draws only the rows inside its viewport, never the whole dataset,
// so rendering cost is O(viewport height) for any row count. Key features:
//   - Fixed-height rows addressed by index; row content comes from a RenderFunc
//   - Keyboard navigation (up/down, pgup/pgdn, home/end, j/k, g/G)
//   - Overscan: rows just outside the viewport are reported as rendered so the
//     data for them is requested before they scroll into view
//   - An ItemsRenderedMsg whenever the rendered window changes
//
// Windows with the same row count and height stay in lockstep when fed the
// same messages, which is how the pinned panes of a table scroll together.
package listview
