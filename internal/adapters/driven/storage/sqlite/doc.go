// Package sqlite provides the SQLite-based implementation of the report store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// A single reports table is created by versioned migrations in the
// migrations/ directory. On every open the live table is compared with the
// current column list and missing columns are added, so databases written by
// older revisions keep working. Schema changes are additive only.
//
// # Retention
//
// Replace keeps one physical row per document key. The version counter still
// increases on every insert even though earlier rows are removed.
//
// # Data Location
//
// By default, the database is stored at ~/.safety-analyzer/data/reports.db
//
// # Thread Safety
//
// Individual operations are safe for concurrent use. Concurrent Replace calls
// for the same document key are not serialised beyond SQLite's own locking;
// the last writer wins.
package sqlite
