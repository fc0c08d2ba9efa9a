// Package compatibility adapts plugin documents for older Meltano clients.
// The client version is read from the Meltano User-Agent header; responses
// for versions that predate a schema change are rewritten to the shape that
// version understands.
package compatibility
