// Package event implements the core Twickenham Stadium event pipeline:
// normalization of scraped free-text dates and times, deterministic
// classification of fixture names into display categories, display
// width measurement for label fitting, day-grouped snapshots, and
// change detection between successive scrape cycles.
//
// Every transform in this package is a pure function over immutable
// values: no I/O, no shared state, safe to call concurrently.
// Unparseable input yields empty-string results rather than errors, so
// one malformed row never aborts a cycle.
package event
