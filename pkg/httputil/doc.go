// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding, error responses,
// parameter parsing, and common HTTP middleware patterns.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteSuccess(w, index)
//
// Error responses carry a {"details": "..."} body:
//
//	httputil.WriteBadRequest(w, "Invalid plugin type")
//	httputil.WriteNotFoundError(w, "No plugin 'tap-foo' found")
//
// # Request Parsing
//
// Path parameters:
//
//	name, err := httputil.ParsePathString(r, "name")
//
// Query parameters:
//
//	limit, err := httputil.ParseQueryInt(r, "limit", 25)
//	pluginType := httputil.ParseQueryString(r, "plugin_type", "any")
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(log),
//		httputil.RecoveryMiddleware(log),
//		httputil.ETagMiddleware(tag),
//	)
package httputil
