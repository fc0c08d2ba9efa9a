package api

import (
	"net/http"

	"github.com/meltano/hub-api/pkg/httputil"
)

// maintainers handles GET /meltano/api/v1/maintainers
func (s *Server) maintainers(w http.ResponseWriter, r *http.Request) {
	list, err := s.hub.Maintainers(r.Context())
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, list)
}

// topMaintainers handles GET /meltano/api/v1/maintainers/top
func (s *Server) topMaintainers(w http.ResponseWriter, r *http.Request) {
	count, err := httputil.ParseQueryInt(r, "count", 10)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if count < 1 || count >= 50 {
		httputil.WriteBadRequest(w, "count must be between 1 and 49")
		return
	}

	top, err := s.hub.TopMaintainers(r.Context(), count)
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, top)
}

// maintainer handles GET /meltano/api/v1/maintainers/{id}
func (s *Server) maintainer(w http.ResponseWriter, r *http.Request) {
	vars := httputil.GetPathVars(r)

	details, err := s.hub.Maintainer(r.Context(), vars["id"])
	if err != nil {
		s.writeHubError(w, err)
		return
	}

	httputil.WriteSuccess(w, details)
}
