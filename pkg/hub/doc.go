// Package hub assembles the documents served by the plugin API: indexes,
// per-variant detail documents, statistics, and maintainer listings. It
// reads the SQLite catalog, shapes responses per client version, and
// caches assembled plugin details.
package hub
