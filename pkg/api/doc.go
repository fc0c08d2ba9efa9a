// Package api provides the HTTP REST API server for the Meltano hub plugin catalog.
//
// # Overview
//
// This package implements the HTTP layer over the read-side catalog facade in
// pkg/hub. It serves the plugin indexes, polymorphic plugin detail documents,
// SDK plugin listings, catalog statistics, and maintainer endpoints consumed
// by the Meltano CLI and the hub website.
//
// # Architecture
//
// The API is built on gorilla/mux and organized into handler groups:
//
//   - Plugin Indexes: Full catalog index and per-type indexes
//   - Plugin Details: Variant detail documents, downgraded per client version
//   - Discovery: Plugins made with the Meltano SDK, catalog statistics
//   - Maintainers: Maintainer listings, per-maintainer details, top maintainers
//
// Every response carries a build-scoped ETag; requests whose If-None-Match
// matches are answered with 304 and no body. Older Meltano clients are
// detected through the User-Agent header and served downgraded setting
// documents.
//
// # Key Types
//
// Server is the main API server:
//
//	server := api.NewServer(hubFacade, store, api.Options{ETag: etag})
//	http.ListenAndServe(":8080", server)
//
// # Related Packages
//
//   - pkg/hub: Assembles the documents this package serves
//   - pkg/compatibility: Client version detection and downgrades
//   - pkg/httputil: Response helpers and middleware
package api
