package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/meltano/hub-api/pkg/compatibility"
	"github.com/meltano/hub-api/pkg/httputil"
)

// pluginIndex handles GET /meltano/api/v1/plugins/index
func (s *Server) pluginIndex(w http.ResponseWriter, r *http.Request) {
	index, err := s.hub.PluginIndex(r.Context())
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, index)
}

// pluginTypeIndex handles GET /meltano/api/v1/plugins/{type}/index
func (s *Server) pluginTypeIndex(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)

	index, err := s.hub.PluginTypeIndex(r.Context(), vars["type"])
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, index)
}

// pluginVariants handles GET /meltano/api/v1/plugins/{type}/{name}.
//
// A name of the form "tap-github--meltanolabs" is the compact form of a
// variant path and is redirected to the canonical one.
func (s *Server) pluginVariants(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)

	if plugin, variant, found := strings.Cut(vars["name"], "--"); found {
		location := fmt.Sprintf("/meltano/api/v1/plugins/%s/%s/%s", vars["type"], plugin, variant)
		http.Redirect(w, r, location, http.StatusFound)
		return
	}

	ref, err := s.hub.PluginVariants(r.Context(), vars["type"], vars["name"])
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, ref)
}

// pluginDetails handles GET /meltano/api/v1/plugins/{type}/{name}/{variant}.
//
// The reserved variant name "default" redirects to the plugin's default
// variant. Detail documents are downgraded for older Meltano clients
// based on the User-Agent header.
func (s *Server) pluginDetails(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)

	if vars["variant"] == "default" {
		location, err := s.hub.DefaultVariantPath(r.Context(), vars["type"], vars["name"])
		if err != nil {
			s.writeHubError(w, err)
			return
		}
		http.Redirect(w, r, location, http.StatusFound)
		return
	}

	version := compatibility.ParseUserAgent(r.Header.Get("User-Agent"))

	details, err := s.hub.PluginDetails(r.Context(), vars["type"], vars["name"], vars["variant"], version)
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, details)
}

// sdkPlugins handles GET /meltano/api/v1/plugins/made-with-sdk
func (s *Server) sdkPlugins(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", 25)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if limit < 1 {
		httputil.WriteBadRequest(w, "limit must be positive")
		return
	}
	pluginType := httputil.ParseQueryString(r, "plugin_type", "any")

	plugins, err := s.hub.SDKPlugins(r.Context(), pluginType, limit)
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, plugins)
}

// pluginStats handles GET /meltano/api/v1/plugins/stats
func (s *Server) pluginStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.hub.Stats(r.Context())
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, stats)
}
