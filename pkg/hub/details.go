package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meltano/hub-api/pkg/compatibility"
	"github.com/meltano/hub-api/pkg/plugin"
	"github.com/meltano/hub-api/pkg/storage"
)

// BaseDetails carries the fields every plugin detail document shares.
// Docs points at the variant's hub website page; Documentation is the
// upstream docs URL from the variant document itself.
type BaseDetails struct {
	Name                    string                    `json:"name"`
	Namespace               string                    `json:"namespace"`
	Variant                 string                    `json:"variant"`
	Label                   *string                   `json:"label,omitempty"`
	Description             *string                   `json:"description,omitempty"`
	Docs                    string                    `json:"docs"`
	Documentation           *string                   `json:"documentation,omitempty"`
	PipURL                  *string                   `json:"pip_url,omitempty"`
	Executable              *string                   `json:"executable,omitempty"`
	Repo                    *string                   `json:"repo,omitempty"`
	ExtRepo                 *string                   `json:"ext_repo,omitempty"`
	LogoURL                 *string                   `json:"logo_url,omitempty"`
	Hidden                  *bool                     `json:"hidden,omitempty"`
	Settings                []plugin.Setting          `json:"settings"`
	SettingsGroupValidation [][]string                `json:"settings_group_validation"`
	Commands                map[string]plugin.Command `json:"commands,omitempty"`
}

// PluginDetails is the closed union of per-type detail documents.
type PluginDetails interface {
	base() BaseDetails
	withSettings([]plugin.Setting) PluginDetails
}

type (
	ExtractorDetails struct {
		BaseDetails
		Capabilities []string       `json:"capabilities"`
		Select       []string       `json:"select,omitempty"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}
	LoaderDetails struct {
		BaseDetails
		Capabilities []string `json:"capabilities"`
	}
	MapperDetails struct {
		BaseDetails
		Capabilities []string `json:"capabilities"`
	}
	TransformerDetails  struct{ BaseDetails }
	UtilityDetails      struct{ BaseDetails }
	TransformDetails    struct{ BaseDetails }
	OrchestratorDetails struct{ BaseDetails }
	FileDetails         struct{ BaseDetails }
)

func (d ExtractorDetails) base() BaseDetails    { return d.BaseDetails }
func (d LoaderDetails) base() BaseDetails       { return d.BaseDetails }
func (d MapperDetails) base() BaseDetails       { return d.BaseDetails }
func (d TransformerDetails) base() BaseDetails  { return d.BaseDetails }
func (d UtilityDetails) base() BaseDetails      { return d.BaseDetails }
func (d TransformDetails) base() BaseDetails    { return d.BaseDetails }
func (d OrchestratorDetails) base() BaseDetails { return d.BaseDetails }
func (d FileDetails) base() BaseDetails         { return d.BaseDetails }

func (d ExtractorDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d LoaderDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d MapperDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d TransformerDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d UtilityDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d TransformDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d OrchestratorDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

func (d FileDetails) withSettings(s []plugin.Setting) PluginDetails {
	d.Settings = s
	return d
}

// compatKey buckets a client version into one of the response shapes, so
// the details cache holds at most one entry per shape.
func compatKey(v compatibility.Version) string {
	switch {
	case v.Before(3, 3):
		return "pre_3_3"
	case v.Before(3, 9):
		return "pre_3_9"
	default:
		return "latest"
	}
}

// PluginDetails assembles the detail document for one variant, shaped for
// the given client version. Documents are cached per variant and shape.
func (h *Hub) PluginDetails(ctx context.Context, pluginType, pluginName, variantName string, version compatibility.Version) (PluginDetails, error) {
	t, err := plugin.ParseType(pluginType)
	if err != nil {
		return nil, &BadParameterError{Message: err.Error()}
	}

	variantID := plugin.VariantID(t, pluginName, variantName)
	key := variantID + "@" + compatKey(version)
	if cached, ok := h.details.Get(key); ok {
		h.countCacheHit()
		return cached, nil
	}
	h.countCacheMiss()

	variant, err := h.store.GetVariant(ctx, variantID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, variantNotFound(pluginName, variantName)
	} else if err != nil {
		return nil, err
	}

	details, err := h.buildDetails(ctx, t, variant)
	if err != nil {
		return nil, err
	}

	details = details.withSettings(compatibility.DowngradeSettings(details.base().Settings, version))
	h.details.Add(key, details)
	return details, nil
}

func (h *Hub) buildDetails(ctx context.Context, t plugin.Type, variant *storage.VariantDetail) (PluginDetails, error) {
	settings, err := h.variantSettings(ctx, variant.ID)
	if err != nil {
		return nil, err
	}

	groups, err := h.store.SettingGroups(ctx, variant.ID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = [][]string{}
	}

	commandRows, err := h.store.VariantCommands(ctx, variant.ID)
	if err != nil {
		return nil, err
	}
	commands := make(map[string]plugin.Command, len(commandRows))
	for name, row := range commandRows {
		commands[name] = plugin.Command{
			Args:        row.Args,
			Description: row.Description,
			Executable:  row.Executable,
		}
	}

	base := BaseDetails{
		Name:                    variant.PluginName,
		Namespace:               variant.Namespace,
		Variant:                 variant.Name,
		Label:                   variant.Label,
		Description:             variant.Description,
		Docs:                    h.hubPageURL(t, variant.PluginName, variant.Name),
		Documentation:           variant.Docs,
		PipURL:                  variant.PipURL,
		Executable:              variant.Executable,
		Repo:                    variant.Repo,
		ExtRepo:                 variant.ExtRepo,
		LogoURL:                 h.assetURL(variant.LogoURL),
		Hidden:                  variant.Hidden,
		Settings:                settings,
		SettingsGroupValidation: groups,
		Commands:                commands,
	}

	switch t {
	case plugin.TypeExtractors:
		capabilities, err := h.store.VariantCapabilities(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		selects, err := h.store.VariantSelects(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		metadata, err := h.variantMetadata(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		return ExtractorDetails{
			BaseDetails:  base,
			Capabilities: emptyNotNil(capabilities),
			Select:       selects,
			Metadata:     metadata,
		}, nil
	case plugin.TypeLoaders:
		capabilities, err := h.store.VariantCapabilities(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		return LoaderDetails{BaseDetails: base, Capabilities: emptyNotNil(capabilities)}, nil
	case plugin.TypeMappers:
		capabilities, err := h.store.VariantCapabilities(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		return MapperDetails{BaseDetails: base, Capabilities: emptyNotNil(capabilities)}, nil
	case plugin.TypeTransformers:
		return TransformerDetails{base}, nil
	case plugin.TypeUtilities:
		return UtilityDetails{base}, nil
	case plugin.TypeTransforms:
		return TransformDetails{base}, nil
	case plugin.TypeOrchestrators:
		return OrchestratorDetails{base}, nil
	case plugin.TypeFiles:
		return FileDetails{base}, nil
	default:
		return nil, fmt.Errorf("unhandled plugin type %q", t)
	}
}

// variantSettings loads and decodes a variant's settings back into the
// typed union.
func (h *Hub) variantSettings(ctx context.Context, variantID string) ([]plugin.Setting, error) {
	rows, err := h.store.VariantSettings(ctx, variantID)
	if err != nil {
		return nil, err
	}

	settings := make([]plugin.Setting, 0, len(rows))
	for _, row := range rows {
		setting, err := decodeSetting(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode setting %s: %w", row.ID, err)
		}
		settings = append(settings, setting)
	}
	return settings, nil
}

func decodeSetting(row storage.SettingWithAliases) (plugin.Setting, error) {
	kind := plugin.KindString
	if row.Kind != nil {
		parsed, ok := plugin.ParseKind(*row.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown setting kind %q", *row.Kind)
		}
		kind = parsed
	}

	common := plugin.SettingCommon{
		Name:          row.Name,
		Label:         row.Label,
		Description:   row.Description,
		Documentation: row.Documentation,
		Placeholder:   row.Placeholder,
		Env:           row.Env,
		Aliases:       row.Aliases,
		Sensitive:     row.Sensitive,
	}

	if row.Value != nil {
		if err := json.Unmarshal([]byte(*row.Value), &common.Value); err != nil {
			return nil, fmt.Errorf("invalid value payload: %w", err)
		}
	}

	var options []plugin.Option
	if row.Options != nil {
		if err := json.Unmarshal([]byte(*row.Options), &options); err != nil {
			return nil, fmt.Errorf("invalid options payload: %w", err)
		}
	}

	return plugin.NewSetting(kind, common, options), nil
}

func (h *Hub) variantMetadata(ctx context.Context, variantID string) (map[string]any, error) {
	rows, err := h.store.VariantMetadata(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	metadata := make(map[string]any, len(rows))
	for key, encoded := range rows {
		var value any
		if err := json.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, fmt.Errorf("invalid metadata payload for %s: %w", key, err)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
