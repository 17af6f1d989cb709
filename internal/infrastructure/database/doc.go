// Package database manages the SQLite connection for Campus Core.
//
// It opens the database with WAL mode and busy-timeout pragmas, applies
// embedded schema migrations, and exposes health checks. SQLite is a
// deliberate fit here: the facility and reservation feeds are small,
// replaced wholesale, and read by a single process.
package database
