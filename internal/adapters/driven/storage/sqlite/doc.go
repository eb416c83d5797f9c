// Package sqlite provides a SQLite-based implementation of driven.RecordStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations.
//
// The employees table holds one snapshot of the collection. A position column
// keeps insertion order and every save replaces the table inside a single
// transaction, so readers never observe a partial collection.
//
// # Data Location
//
// By default, the database is stored at ~/.payroll/data/payroll.db
package sqlite
