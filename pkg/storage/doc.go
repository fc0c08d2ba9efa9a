// Package storage implements the SQLite plugin catalog. The database is
// write-once: the build process drops and recreates the schema, inserts a
// full catalog in one transaction, and the API serves reads from the
// result.
package storage
