package hub

import (
	"context"
	"fmt"

	"github.com/meltano/hub-api/pkg/plugin"
)

// Maintainer is one entry of the maintainers listing.
type Maintainer struct {
	ID    string            `json:"id"`
	Label *string           `json:"label"`
	URL   *string           `json:"url"`
	Links map[string]string `json:"links"`
}

// MaintainersList wraps the full maintainer listing.
type MaintainersList struct {
	Maintainers []Maintainer `json:"maintainers"`
}

// MaintainerDetails is one maintainer with links to every variant they
// maintain.
type MaintainerDetails struct {
	ID    string            `json:"id"`
	Label *string           `json:"label"`
	URL   *string           `json:"url"`
	Links map[string]string `json:"links"`
}

// MaintainerPluginCount ranks a maintainer by how many variants carry
// their name.
type MaintainerPluginCount struct {
	ID          string  `json:"id"`
	Label       *string `json:"label"`
	URL         *string `json:"url"`
	PluginCount int     `json:"plugin_count"`
}

// Maintainers lists every maintainer with a link to their details.
func (h *Hub) Maintainers(ctx context.Context) (*MaintainersList, error) {
	rows, err := h.store.Maintainers(ctx)
	if err != nil {
		return nil, err
	}

	list := &MaintainersList{Maintainers: make([]Maintainer, 0, len(rows))}
	for _, row := range rows {
		list.Maintainers = append(list.Maintainers, Maintainer{
			ID:    row.ID,
			Label: row.Label,
			URL:   row.URL,
			Links: map[string]string{
				"details": fmt.Sprintf("/meltano/api/v1/maintainers/%s", row.ID),
			},
		})
	}
	return list, nil
}

// Maintainer returns one maintainer with links to their plugins.
func (h *Hub) Maintainer(ctx context.Context, id string) (*MaintainerDetails, error) {
	row, err := h.store.Maintainer(ctx, id)
	if err != nil {
		return nil, replaceNotFound(err, maintainerNotFound(id))
	}

	refs, err := h.store.MaintainerVariants(ctx, id)
	if err != nil {
		return nil, err
	}

	links := make(map[string]string, len(refs))
	for _, ref := range refs {
		links[ref.PluginName] = variantPath(plugin.Type(ref.PluginType), ref.PluginName, ref.VariantName)
	}

	return &MaintainerDetails{
		ID:    row.ID,
		Label: row.Label,
		URL:   row.URL,
		Links: links,
	}, nil
}

// TopMaintainers ranks maintainers by variant count.
func (h *Hub) TopMaintainers(ctx context.Context, n int) ([]MaintainerPluginCount, error) {
	rows, err := h.store.TopMaintainers(ctx, n)
	if err != nil {
		return nil, err
	}

	top := make([]MaintainerPluginCount, 0, len(rows))
	for _, row := range rows {
		top = append(top, MaintainerPluginCount{
			ID:          row.ID,
			Label:       row.Label,
			URL:         row.URL,
			PluginCount: row.PluginCount,
		})
	}
	return top, nil
}
