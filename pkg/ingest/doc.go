// Package ingest builds the plugin catalog from a Meltano Hub data
// directory. Every variant document is validated before anything touches
// the database; valid rows are written in a single transaction and
// failures are collected into a report instead of aborting the load.
package ingest
