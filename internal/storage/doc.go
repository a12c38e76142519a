// Package storage persists event snapshots to JSON files so the
// change detector can compare successive scrape cycles. A missing
// snapshot file reads back as an empty snapshot rather than an error.
package storage
