package hub

import (
	"fmt"

	"github.com/meltano/hub-api/pkg/plugin"
)

// apiPrefix is the path under which the plugin API is mounted.
const apiPrefix = "/meltano/api/v1/plugins"

// variantPath builds the API path for one variant, e.g.
// "/meltano/api/v1/plugins/extractors/tap-github--meltanolabs".
func variantPath(t plugin.Type, name, variant string) string {
	return fmt.Sprintf("%s/%s/%s--%s", apiPrefix, t, name, variant)
}

// hubPageURL builds the hub website URL for a variant's documentation
// page.
func (h *Hub) hubPageURL(t plugin.Type, name, variant string) string {
	return fmt.Sprintf("%s/%s/%s--%s", h.hubURL, t, name, variant)
}

// assetURL resolves a site-relative asset path, such as a logo, against
// the hub website URL. Index and detail documents resolve logos the same
// way; documents store paths like "/assets/logos/extractors/github.png",
// so no extra prefix is inserted here.
func (h *Hub) assetURL(path *string) *string {
	if path == nil {
		return nil
	}
	url := h.hubURL + *path
	return &url
}

// refURL builds the absolute API URL for a variant reference.
func (h *Hub) refURL(t plugin.Type, name, variant string) string {
	return h.apiURL + variantPath(t, name, variant)
}
