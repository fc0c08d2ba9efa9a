package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/meltano/hub-api/pkg/plugin"
	"github.com/meltano/hub-api/pkg/storage"
)

// DefaultSourceURL is where error report links point when no override is
// given.
const DefaultSourceURL = "https://github.com/meltano/hub/blob/main/_data"

// Loader reads a hub data directory and builds the plugin catalog. The
// directory layout is the Meltano Hub _data tree:
//
//	default_variants.yml
//	maintainers.yml
//	meltano/<plugin type>/<plugin name>/<variant>.yml
type Loader struct {
	dataDir   string
	sourceURL string
	log       *logrus.Logger
}

// NewLoader creates a loader for the given data directory.
func NewLoader(dataDir string, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.New()
	}

	return &Loader{
		dataDir:   dataDir,
		sourceURL: DefaultSourceURL,
		log:       log,
	}
}

// SetSourceURL overrides the base URL used for error report links.
func (l *Loader) SetSourceURL(url string) {
	l.sourceURL = strings.TrimSuffix(url, "/")
}

type maintainerDoc struct {
	Name  *string `yaml:"name"`
	Label *string `yaml:"label"`
	URL   *string `yaml:"url"`
}

// Load reads the data directory, validates every variant document, and
// replaces the store's contents with the result in one transaction.
// Documents that fail validation are reported in the result and skipped;
// they never abort the load.
func (l *Loader) Load(ctx context.Context, store *storage.Store) (*LoadResult, error) {
	defaultVariants, err := l.readDefaultVariants()
	if err != nil {
		return nil, err
	}

	maintainers, err := l.readMaintainers()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	batch := &storage.Batch{}

	for id, doc := range maintainers {
		batch.Maintainers = append(batch.Maintainers, storage.MaintainerRow{
			ID:    id,
			Name:  doc.Name,
			Label: doc.Label,
			URL:   doc.URL,
		})
	}

	for _, pluginType := range plugin.Types() {
		variantCount := 0
		pluginCount := 0

		typeDir := filepath.Join(l.dataDir, "meltano", string(pluginType))
		entries, err := os.ReadDir(typeDir)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read plugin type directory %s: %w", typeDir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			pluginName := entry.Name()
			pluginID := plugin.PluginID(pluginType, pluginName)
			defaultVariant := defaultVariants[string(pluginType)][pluginName]

			count, err := l.loadPluginDir(filepath.Join(typeDir, pluginName), pluginType, pluginName, batch, result)
			if err != nil {
				return nil, err
			}
			variantCount += count

			// The default variant is claimed even when its document
			// is missing or failed validation; the index join hides
			// such plugins until the document is fixed.
			batch.Plugins = append(batch.Plugins, storage.PluginRow{
				ID:               pluginID,
				DefaultVariantID: plugin.VariantID(pluginType, pluginName, defaultVariant),
				PluginType:       string(pluginType),
				Name:             pluginName,
			})
			pluginCount++
		}

		l.log.Infof("Processed %d variants for %d unique %s", variantCount, pluginCount, pluginType)
	}

	if err := store.CreateSchema(ctx); err != nil {
		return nil, err
	}
	if err := store.InsertBatch(ctx, batch); err != nil {
		return nil, err
	}

	return result, nil
}

func (l *Loader) readDefaultVariants() (map[string]map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(l.dataDir, "default_variants.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read default variants: %w", err)
	}

	var defaults map[string]map[string]string
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse default variants: %w", err)
	}
	return defaults, nil
}

func (l *Loader) readMaintainers() (map[string]maintainerDoc, error) {
	data, err := os.ReadFile(filepath.Join(l.dataDir, "maintainers.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read maintainers: %w", err)
	}

	var maintainers map[string]maintainerDoc
	if err := yaml.Unmarshal(data, &maintainers); err != nil {
		return nil, fmt.Errorf("failed to parse maintainers: %w", err)
	}
	return maintainers, nil
}

func (l *Loader) loadPluginDir(dir string, pluginType plugin.Type, pluginName string, batch *storage.Batch, result *LoadResult) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return 0, fmt.Errorf("failed to list variant documents in %s: %w", dir, err)
	}

	count := 0
	for _, file := range files {
		variantName := strings.TrimSuffix(filepath.Base(file), ".yml")

		data, err := os.ReadFile(file)
		if err != nil {
			return count, fmt.Errorf("failed to read variant document %s: %w", file, err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			result.Errors = append(result.Errors, LoadError{
				PluginName: pluginName,
				Variant:    variantName,
				Link:       l.errorLink(pluginType, pluginName, variantName),
				Issue:      plugin.Issue{Message: fmt.Sprintf("invalid YAML: %v", err)},
			})
			continue
		}

		def, issues := plugin.ValidateDefinition(raw, pluginType)
		if len(issues) > 0 {
			l.log.Errorf("Error validating plugin %s", plugin.PluginID(pluginType, pluginName))
			for _, issue := range issues {
				result.Errors = append(result.Errors, LoadError{
					PluginName: pluginName,
					Variant:    variantName,
					Link:       l.errorLink(pluginType, pluginName, variantName),
					Issue:      issue,
				})
			}
			continue
		}

		if err := appendVariant(batch, def, pluginType, pluginName, variantName); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (l *Loader) errorLink(pluginType plugin.Type, pluginName, variantName string) string {
	return fmt.Sprintf("%s/meltano/%s/%s/%s.yml", l.sourceURL, pluginType, pluginName, variantName)
}

// appendVariant converts one validated definition into catalog rows. Row
// ids key off the directory and file names, never the document's name
// field, so a mismatched document cannot reference a plugin row that was
// never written.
func appendVariant(batch *storage.Batch, def *plugin.Definition, pluginType plugin.Type, pluginName, variantName string) error {
	variantID := plugin.VariantID(pluginType, pluginName, variantName)

	repo := def.Repo
	batch.Variants = append(batch.Variants, storage.VariantRow{
		ID:                variantID,
		PluginID:          plugin.PluginID(pluginType, pluginName),
		Name:              variantName,
		Description:       def.Description,
		Docs:              def.Docs,
		LogoURL:           def.LogoURL,
		PipURL:            def.PipURL,
		Executable:        def.Executable,
		Repo:              &repo,
		ExtRepo:           def.ExtRepo,
		Namespace:         def.Namespace,
		Label:             def.Label,
		Hidden:            def.Hidden,
		MaintenanceStatus: maintenanceStatusValue(def.MaintenanceStatus),
		Quality:           qualityValue(def.Quality),
		DomainURL:         def.DomainURL,
		Definition:        def.DefinitionText,
		NextSteps:         def.NextSteps,
		SettingsPreamble:  def.SettingsPreamble,
		Usage:             def.Usage,
		Prereq:            def.Prereq,
	})

	for _, setting := range def.Settings {
		if err := appendSetting(batch, setting, variantID); err != nil {
			return err
		}
	}

	for groupIdx, group := range def.SettingsGroupValidation {
		for pos, settingName := range group {
			batch.SettingGroups = append(batch.SettingGroups, storage.SettingGroupRow{
				VariantID:   variantID,
				SettingID:   fmt.Sprintf("%s.setting_%s", variantID, settingName),
				GroupID:     groupIdx,
				Position:    pos,
				SettingName: settingName,
			})
		}
	}

	for _, capability := range def.Capabilities {
		batch.Capabilities = append(batch.Capabilities, storage.CapabilityRow{
			ID:        fmt.Sprintf("%s.capability_%s", variantID, capability),
			VariantID: variantID,
			Name:      capability,
		})
	}

	for _, keyword := range def.Keywords {
		batch.Keywords = append(batch.Keywords, storage.KeywordRow{
			ID:        fmt.Sprintf("%s.keyword_%s", variantID, keyword),
			VariantID: variantID,
			Name:      keyword,
		})
	}

	for i, expression := range def.Select {
		batch.Selects = append(batch.Selects, storage.SelectRow{
			ID:         fmt.Sprintf("%s.select_%d", variantID, i),
			VariantID:  variantID,
			Expression: expression,
		})
	}

	metadataKeys := make([]string, 0, len(def.Metadata))
	for key := range def.Metadata {
		metadataKeys = append(metadataKeys, key)
	}
	sort.Strings(metadataKeys)
	for i, key := range metadataKeys {
		encoded, err := json.Marshal(def.Metadata[key])
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", variantID, err)
		}
		batch.Metadata = append(batch.Metadata, storage.MetadataRow{
			ID:        fmt.Sprintf("%s.metadata_%d", variantID, i),
			VariantID: variantID,
			Key:       key,
			Value:     string(encoded),
		})
	}

	for name, command := range def.Commands {
		batch.Commands = append(batch.Commands, storage.CommandRow{
			ID:          fmt.Sprintf("%s.command_%s", variantID, name),
			VariantID:   variantID,
			Name:        name,
			Args:        command.Args,
			Description: command.Description,
			Executable:  command.Executable,
		})
	}

	requireTypes := make([]string, 0, len(def.Requires))
	for reqType := range def.Requires {
		requireTypes = append(requireTypes, string(reqType))
	}
	sort.Strings(requireTypes)
	for _, reqType := range requireTypes {
		for _, req := range def.Requires[plugin.Type(reqType)] {
			// The same plugin name can be required under more than
			// one type, so the type is part of the id.
			batch.Requires = append(batch.Requires, storage.RequireRow{
				ID:        fmt.Sprintf("%s.require_%s_%s", variantID, reqType, req.Name),
				VariantID: variantID,
				Name:      req.Name,
				Variant:   req.Variant,
			})
		}
	}

	return nil
}

func appendSetting(batch *storage.Batch, setting plugin.Setting, variantID string) error {
	c := setting.Common()
	settingID := fmt.Sprintf("%s.setting_%s", variantID, c.Name)

	row := storage.SettingRow{
		ID:            settingID,
		VariantID:     variantID,
		Name:          c.Name,
		Label:         c.Label,
		Description:   c.Description,
		Documentation: c.Documentation,
		Placeholder:   c.Placeholder,
		Env:           c.Env,
		Kind:          ptr(string(setting.Kind())),
		Sensitive:     c.Sensitive,
	}

	if c.Value != nil {
		encoded, err := json.Marshal(c.Value)
		if err != nil {
			return fmt.Errorf("failed to encode value for setting %s: %w", settingID, err)
		}
		row.Value = ptr(string(encoded))
	}

	if opts, ok := setting.(plugin.OptionsSetting); ok {
		encoded, err := json.Marshal(opts.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options for setting %s: %w", settingID, err)
		}
		row.Options = ptr(string(encoded))
	}

	batch.Settings = append(batch.Settings, row)

	for _, alias := range c.Aliases {
		batch.SettingAlias = append(batch.SettingAlias, storage.SettingAliasRow{
			ID:        fmt.Sprintf("%s.alias_%s", settingID, alias),
			SettingID: settingID,
			Name:      alias,
		})
	}

	return nil
}

func ptr[T any](v T) *T { return &v }

func maintenanceStatusValue(s *plugin.MaintenanceStatus) *string {
	if s == nil {
		return nil
	}
	return ptr(string(*s))
}

func qualityValue(q *plugin.Quality) *string {
	if q == nil {
		return nil
	}
	return ptr(string(*q))
}
