// Package source provides the data sources behind the table: a synthetic
// generator that produces a deterministic person-shaped row for any index
// after a simulated latency, and a wrapper that injects failures.
//
// Generated rows depend only on the seed and the row index, so re-fetching a
// range always yields the same values.
package source
