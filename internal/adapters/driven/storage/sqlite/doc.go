// Package sqlite provides the SQLite-backed resource cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Images fetched while inlining rich text are stored by
// their original reference so repeated exports of the same record do not
// hit the tracker again.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of NNN_name.up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.docket/data/cache.db
package sqlite
