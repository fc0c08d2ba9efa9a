package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// VariantDetail is a variant row joined with its owning plugin.
type VariantDetail struct {
	VariantRow
	PluginName string
	PluginType string
}

// SettingWithAliases is a setting row plus its alias names.
type SettingWithAliases struct {
	SettingRow
	Aliases []string
}

// IndexRow is one variant as listed in the plugin indexes.
type IndexRow struct {
	PluginName     string
	PluginType     string
	VariantName    string
	LogoURL        *string
	DefaultVariant string
}

// VariantRef identifies one variant of a plugin.
type VariantRef struct {
	PluginName  string
	PluginType  string
	VariantName string
}

// MaintainerPluginCount is a maintainer row plus how many variants carry
// their name.
type MaintainerPluginCount struct {
	MaintainerRow
	PluginCount int
}

// GetVariant fetches one variant with its plugin identity.
func (s *Store) GetVariant(ctx context.Context, variantID string) (*VariantDetail, error) {
	query := `
		SELECT v.id, v.plugin_id, v.name, v.description, v.docs, v.logo_url,
			v.pip_url, v.executable, v.repo, v.ext_repo, v.namespace,
			v.label, v.hidden, v.maintenance_status, v.quality,
			v.domain_url, v.definition, v.next_steps, v.settings_preamble,
			v.usage, v.prereq, p.name, p.plugin_type
		FROM plugin_variants v
		JOIN plugins p ON p.id = v.plugin_id
		WHERE v.id = ?
	`

	var d VariantDetail
	err := s.db.QueryRowContext(ctx, query, variantID).Scan(
		&d.ID, &d.PluginID, &d.Name, &d.Description, &d.Docs, &d.LogoURL,
		&d.PipURL, &d.Executable, &d.Repo, &d.ExtRepo, &d.Namespace,
		&d.Label, &d.Hidden, &d.MaintenanceStatus, &d.Quality,
		&d.DomainURL, &d.Definition, &d.NextSteps, &d.SettingsPreamble,
		&d.Usage, &d.Prereq, &d.PluginName, &d.PluginType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get variant %s: %w", variantID, err)
	}

	return &d, nil
}

// VariantSettings fetches a variant's settings with their aliases.
func (s *Store) VariantSettings(ctx context.Context, variantID string) ([]SettingWithAliases, error) {
	query := `
		SELECT id, variant_id, name, label, description, documentation,
			placeholder, env, kind, value, options, sensitive
		FROM settings
		WHERE variant_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings []SettingWithAliases
	index := map[string]int{}
	for rows.Next() {
		var st SettingWithAliases
		err := rows.Scan(
			&st.ID, &st.VariantID, &st.Name, &st.Label, &st.Description,
			&st.Documentation, &st.Placeholder, &st.Env, &st.Kind,
			&st.Value, &st.Options, &st.Sensitive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		index[st.ID] = len(settings)
		settings = append(settings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	aliasQuery := `
		SELECT a.setting_id, a.name
		FROM setting_aliases a
		JOIN settings st ON st.id = a.setting_id
		WHERE st.variant_id = ?
		ORDER BY a.id
	`
	aliasRows, err := s.db.QueryContext(ctx, aliasQuery, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query setting aliases: %w", err)
	}
	defer aliasRows.Close()

	for aliasRows.Next() {
		var settingID, name string
		if err := aliasRows.Scan(&settingID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan setting alias: %w", err)
		}
		if i, ok := index[settingID]; ok {
			settings[i].Aliases = append(settings[i].Aliases, name)
		}
	}
	if err := aliasRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate setting aliases: %w", err)
	}

	return settings, nil
}

// SettingGroups fetches the settings_group_validation lists for a variant.
func (s *Store) SettingGroups(ctx context.Context, variantID string) ([][]string, error) {
	query := `
		SELECT group_id, setting_name
		FROM setting_groups
		WHERE variant_id = ?
		ORDER BY group_id, position
	`

	rows, err := s.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query setting groups: %w", err)
	}
	defer rows.Close()

	var groups [][]string
	last := -1
	for rows.Next() {
		var groupID int
		var name string
		if err := rows.Scan(&groupID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan setting group: %w", err)
		}
		if groupID != last {
			groups = append(groups, nil)
			last = groupID
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate setting groups: %w", err)
	}

	return groups, nil
}

func (s *Store) variantNames(ctx context.Context, table, column, variantID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE variant_id = ? ORDER BY id`, column, table)

	rows, err := s.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// VariantCapabilities fetches a variant's capability names.
func (s *Store) VariantCapabilities(ctx context.Context, variantID string) ([]string, error) {
	return s.variantNames(ctx, "capabilities", "name", variantID)
}

// VariantSelects fetches a variant's select expressions.
func (s *Store) VariantSelects(ctx context.Context, variantID string) ([]string, error) {
	return s.variantNames(ctx, "selects", "expression", variantID)
}

// VariantCommands fetches a variant's commands keyed by name.
func (s *Store) VariantCommands(ctx context.Context, variantID string) (map[string]CommandRow, error) {
	query := `
		SELECT id, variant_id, name, args, description, executable
		FROM commands
		WHERE variant_id = ?
	`

	rows, err := s.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	commands := map[string]CommandRow{}
	for rows.Next() {
		var c CommandRow
		if err := rows.Scan(&c.ID, &c.VariantID, &c.Name, &c.Args, &c.Description, &c.Executable); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands[c.Name] = c
	}
	return commands, rows.Err()
}

// VariantMetadata fetches a variant's metadata overrides keyed by stream,
// values still JSON-encoded.
func (s *Store) VariantMetadata(ctx context.Context, variantID string) (map[string]string, error) {
	query := `SELECT key, value FROM metadata WHERE variant_id = ?`

	rows, err := s.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metadata := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		metadata[key] = value
	}
	return metadata, rows.Err()
}

// IndexRows lists every variant with its plugin's default variant name. A
// nil pluginType lists all types. Plugins whose default variant document
// failed to load are absent from the join and thus from the index.
func (s *Store) IndexRows(ctx context.Context, pluginType *string) ([]IndexRow, error) {
	query := `
		SELECT p.name, p.plugin_type, v.name, v.logo_url, dv.name
		FROM plugin_variants v
		JOIN plugins p ON p.id = v.plugin_id
		JOIN plugin_variants dv ON dv.id = p.default_variant_id AND dv.plugin_id = p.id
	`
	args := []any{}
	if pluginType != nil {
		query += ` WHERE p.plugin_type = ?`
		args = append(args, *pluginType)
	}
	query += ` ORDER BY p.name, v.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plugin index: %w", err)
	}
	defer rows.Close()

	var index []IndexRow
	for rows.Next() {
		var r IndexRow
		if err := rows.Scan(&r.PluginName, &r.PluginType, &r.VariantName, &r.LogoURL, &r.DefaultVariant); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		index = append(index, r)
	}
	return index, rows.Err()
}

// DefaultVariant resolves a plugin's default variant reference.
func (s *Store) DefaultVariant(ctx context.Context, pluginID string) (*VariantRef, error) {
	query := `
		SELECT p.name, p.plugin_type, v.name
		FROM plugins p
		JOIN plugin_variants v ON v.id = p.default_variant_id
		WHERE v.plugin_id = ?
	`

	var ref VariantRef
	err := s.db.QueryRowContext(ctx, query, pluginID).Scan(&ref.PluginName, &ref.PluginType, &ref.VariantName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get default variant for %s: %w", pluginID, err)
	}

	return &ref, nil
}

// SDKVariants lists variants tagged with the Meltano SDK keyword. A nil
// pluginType matches any type.
func (s *Store) SDKVariants(ctx context.Context, pluginType *string, limit int) ([]VariantRef, error) {
	query := `
		SELECT p.name, p.plugin_type, v.name
		FROM plugins p
		JOIN plugin_variants v ON v.plugin_id = p.id
		JOIN keywords k ON k.variant_id = v.id AND k.name = 'meltano_sdk'
	`
	args := []any{}
	if pluginType != nil {
		query += ` WHERE p.plugin_type = ?`
		args = append(args, *pluginType)
	}
	query += ` ORDER BY p.name, v.name LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sdk variants: %w", err)
	}
	defer rows.Close()

	var refs []VariantRef
	for rows.Next() {
		var ref VariantRef
		if err := rows.Scan(&ref.PluginName, &ref.PluginType, &ref.VariantName); err != nil {
			return nil, fmt.Errorf("failed to scan sdk variant: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Stats counts plugins per type. Types with no plugins are absent; callers
// zero-fill.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	query := `SELECT plugin_type, COUNT(id) FROM plugins GROUP BY plugin_type`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plugin stats: %w", err)
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var pluginType string
		var count int
		if err := rows.Scan(&pluginType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan plugin stats: %w", err)
		}
		stats[pluginType] = count
	}
	return stats, rows.Err()
}

// Maintainers lists every maintainer.
func (s *Store) Maintainers(ctx context.Context) ([]MaintainerRow, error) {
	query := `SELECT id, name, label, url FROM maintainers ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintainers: %w", err)
	}
	defer rows.Close()

	var maintainers []MaintainerRow
	for rows.Next() {
		var m MaintainerRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Label, &m.URL); err != nil {
			return nil, fmt.Errorf("failed to scan maintainer: %w", err)
		}
		maintainers = append(maintainers, m)
	}
	return maintainers, rows.Err()
}

// Maintainer fetches one maintainer by id.
func (s *Store) Maintainer(ctx context.Context, id string) (*MaintainerRow, error) {
	var m MaintainerRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, label, url FROM maintainers WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Label, &m.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get maintainer %s: %w", id, err)
	}

	return &m, nil
}

// MaintainerVariants lists the variants a maintainer owns. Ownership is
// recorded by variant name matching the maintainer id.
func (s *Store) MaintainerVariants(ctx context.Context, id string) ([]VariantRef, error) {
	query := `
		SELECT p.name, p.plugin_type, v.name
		FROM plugin_variants v
		JOIN plugins p ON p.id = v.plugin_id
		WHERE v.name = ?
		ORDER BY p.name
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintainer variants: %w", err)
	}
	defer rows.Close()

	var refs []VariantRef
	for rows.Next() {
		var ref VariantRef
		if err := rows.Scan(&ref.PluginName, &ref.PluginType, &ref.VariantName); err != nil {
			return nil, fmt.Errorf("failed to scan maintainer variant: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// TopMaintainers lists the n maintainers with the most variants.
func (s *Store) TopMaintainers(ctx context.Context, n int) ([]MaintainerPluginCount, error) {
	query := `
		SELECT m.id, m.label, m.url, COUNT(v.id) AS plugin_count
		FROM maintainers m
		JOIN plugin_variants v ON v.name = m.id
		GROUP BY m.id
		ORDER BY plugin_count DESC, m.id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top maintainers: %w", err)
	}
	defer rows.Close()

	var top []MaintainerPluginCount
	for rows.Next() {
		var m MaintainerPluginCount
		if err := rows.Scan(&m.ID, &m.Label, &m.URL, &m.PluginCount); err != nil {
			return nil, fmt.Errorf("failed to scan top maintainer: %w", err)
		}
		top = append(top, m)
	}
	return top, rows.Err()
}
