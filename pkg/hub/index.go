package hub

import (
	"context"
	"errors"

	"github.com/meltano/hub-api/pkg/plugin"
	"github.com/meltano/hub-api/pkg/storage"
)

// replaceNotFound swaps the storage sentinel for a domain error, leaving
// other failures untouched.
func replaceNotFound(err error, notFound *NotFoundError) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return err
}

// VariantReference points a client at the detail endpoint for a variant.
type VariantReference struct {
	Ref string `json:"ref"`
}

// PluginRef is one plugin in an index: its default variant and all known
// variants.
type PluginRef struct {
	DefaultVariant string                      `json:"default_variant"`
	LogoURL        *string                     `json:"logo_url,omitempty"`
	Variants       map[string]VariantReference `json:"variants"`
}

// PluginTypeIndex maps plugin name to its reference entry.
type PluginTypeIndex map[string]*PluginRef

// PluginIndex maps every plugin type to its index, including types with
// no plugins.
type PluginIndex map[plugin.Type]PluginTypeIndex

// PluginListElement is one row of the made-with-sdk listing.
type PluginListElement struct {
	PluginID   string `json:"plugin_id"`
	VariantID  string `json:"variant_id"`
	Plugin     string `json:"plugin"`
	Variant    string `json:"variant"`
	PluginType string `json:"plugin_type"`
	Ref        string `json:"ref"`
}

// PluginIndex lists every plugin grouped by type.
func (h *Hub) PluginIndex(ctx context.Context) (PluginIndex, error) {
	index := make(PluginIndex, len(plugin.Types()))
	for _, t := range plugin.Types() {
		index[t] = PluginTypeIndex{}
	}

	rows, err := h.store.IndexRows(ctx, nil)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		t := plugin.Type(row.PluginType)
		typeIndex, ok := index[t]
		if !ok {
			continue
		}
		h.addIndexRow(typeIndex, t, row)
	}

	return index, nil
}

// PluginTypeIndex lists the plugins of one type.
func (h *Hub) PluginTypeIndex(ctx context.Context, pluginType string) (PluginTypeIndex, error) {
	t, err := plugin.ParseType(pluginType)
	if err != nil {
		return nil, &BadParameterError{Message: err.Error()}
	}

	typeName := string(t)
	rows, err := h.store.IndexRows(ctx, &typeName)
	if err != nil {
		return nil, err
	}

	index := PluginTypeIndex{}
	for _, row := range rows {
		h.addIndexRow(index, t, row)
	}
	return index, nil
}

func (h *Hub) addIndexRow(index PluginTypeIndex, t plugin.Type, row storage.IndexRow) {
	ref, ok := index[row.PluginName]
	if !ok {
		ref = &PluginRef{
			DefaultVariant: row.DefaultVariant,
			LogoURL:        h.assetURL(row.LogoURL),
			Variants:       map[string]VariantReference{},
		}
		index[row.PluginName] = ref
	}
	ref.Variants[row.VariantName] = VariantReference{
		Ref: h.refURL(t, row.PluginName, row.VariantName),
	}
}

// PluginVariants returns the index entry for a single plugin.
func (h *Hub) PluginVariants(ctx context.Context, pluginType, pluginName string) (*PluginRef, error) {
	t, err := plugin.ParseType(pluginType)
	if err != nil {
		return nil, &BadParameterError{Message: err.Error()}
	}

	typeName := string(t)
	rows, err := h.store.IndexRows(ctx, &typeName)
	if err != nil {
		return nil, err
	}

	index := PluginTypeIndex{}
	for _, row := range rows {
		if row.PluginName == pluginName {
			h.addIndexRow(index, t, row)
		}
	}

	ref, ok := index[pluginName]
	if !ok {
		return nil, pluginNotFound(pluginType, pluginName)
	}
	return ref, nil
}

// DefaultVariantPath resolves a plugin to the API path of its default
// variant, for redirects.
func (h *Hub) DefaultVariantPath(ctx context.Context, pluginType, pluginName string) (string, error) {
	t, err := plugin.ParseType(pluginType)
	if err != nil {
		return "", &BadParameterError{Message: err.Error()}
	}

	ref, err := h.store.DefaultVariant(ctx, plugin.PluginID(t, pluginName))
	if err != nil {
		return "", replaceNotFound(err, pluginNotFound(pluginType, pluginName))
	}

	return variantPath(t, ref.PluginName, ref.VariantName), nil
}

// SDKPlugins lists plugins built on the Meltano SDK. pluginType may be a
// concrete type or "any".
func (h *Hub) SDKPlugins(ctx context.Context, pluginType string, limit int) ([]PluginListElement, error) {
	var filter *string
	if pluginType != "" && pluginType != "any" {
		t, err := plugin.ParseType(pluginType)
		if err != nil {
			return nil, &BadParameterError{Message: err.Error()}
		}
		name := string(t)
		filter = &name
	}

	refs, err := h.store.SDKVariants(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	elements := make([]PluginListElement, 0, len(refs))
	for _, ref := range refs {
		t := plugin.Type(ref.PluginType)
		elements = append(elements, PluginListElement{
			PluginID:   plugin.PluginID(t, ref.PluginName),
			VariantID:  plugin.VariantID(t, ref.PluginName, ref.VariantName),
			Plugin:     ref.PluginName,
			Variant:    ref.VariantName,
			PluginType: ref.PluginType,
			Ref:        h.refURL(t, ref.PluginName, ref.VariantName),
		})
	}
	return elements, nil
}

// Stats counts plugins per type. Every type appears, zero or not.
func (h *Hub) Stats(ctx context.Context) (map[plugin.Type]int, error) {
	counts, err := h.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[plugin.Type]int, len(plugin.Types()))
	for _, t := range plugin.Types() {
		stats[t] = counts[string(t)]
	}
	return stats, nil
}
