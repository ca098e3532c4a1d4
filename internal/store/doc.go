// Package store keeps a SQLite snapshot of a fleet and the reports
// evaluated from it.
//
// A snapshot is written by `assetctl import` and read back by
// `assetctl evaluate --db`, so a fleet compiled once from CUE can be
// re-evaluated without reloading the sources. The store never computes
// anything: it round-trips model.Fleet and report.EvaluationReport.
//
// # Ordering
//
// All reads order by id COLLATE BINARY (and by position for per-asset
// history), so a fleet read back evaluates to the same report digest as
// the fleet that was written.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Child rows cascade with their asset
//
// Dates are stored as TEXT: calendar dates as YYYY-MM-DD and timestamps
// as RFC 3339 in UTC.
package store
