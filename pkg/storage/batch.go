package storage

import (
	"context"
	"fmt"
)

// Row types mirror the catalog tables one to one. Nullable columns are
// pointers so absent YAML fields stay NULL instead of collapsing to "".

type PluginRow struct {
	ID               string
	DefaultVariantID string
	PluginType       string
	Name             string
}

type VariantRow struct {
	ID                string
	PluginID          string
	Name              string
	Description       *string
	Docs              *string
	LogoURL           *string
	PipURL            *string
	Executable        *string
	Repo              *string
	ExtRepo           *string
	Namespace         string
	Label             *string
	Hidden            *bool
	MaintenanceStatus *string
	Quality           *string
	DomainURL         *string
	Definition        *string
	NextSteps         *string
	SettingsPreamble  *string
	Usage             *string
	Prereq            *string
}

type SettingRow struct {
	ID            string
	VariantID     string
	Name          string
	Label         *string
	Description   *string
	Documentation *string
	Placeholder   *string
	Env           *string
	Kind          *string
	Value         *string // JSON
	Options       *string // JSON
	Sensitive     *bool
}

type SettingAliasRow struct {
	ID        string
	SettingID string
	Name      string
}

type SettingGroupRow struct {
	VariantID   string
	SettingID   string
	GroupID     int
	Position    int // order within the group as declared in the document
	SettingName string
}

type CapabilityRow struct {
	ID        string
	VariantID string
	Name      string
}

type KeywordRow struct {
	ID        string
	VariantID string
	Name      string
}

type CommandRow struct {
	ID          string
	VariantID   string
	Name        string
	Args        string
	Description *string
	Executable  *string
}

type SelectRow struct {
	ID         string
	VariantID  string
	Expression string
}

type MetadataRow struct {
	ID        string
	VariantID string
	Key       string
	Value     string // JSON
}

type RequireRow struct {
	ID        string
	VariantID string
	Name      string
	Variant   string
}

type MaintainerRow struct {
	ID    string
	Name  *string
	Label *string
	URL   *string
}

// Batch is one complete catalog load, accumulated in memory and written
// in a single transaction.
type Batch struct {
	Maintainers   []MaintainerRow
	Plugins       []PluginRow
	Variants      []VariantRow
	Settings      []SettingRow
	SettingAlias  []SettingAliasRow
	SettingGroups []SettingGroupRow
	Capabilities  []CapabilityRow
	Keywords      []KeywordRow
	Commands      []CommandRow
	Selects       []SelectRow
	Metadata      []MetadataRow
	Requires      []RequireRow
}

// InsertBatch writes the whole batch atomically. Any failure, including a
// duplicate primary key, rolls back the entire load.
func (s *Store) InsertBatch(ctx context.Context, batch *Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range batch.Maintainers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO maintainers (id, name, label, url) VALUES (?, ?, ?, ?)`,
			m.ID, m.Name, m.Label, m.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert maintainer %s: %w", m.ID, err)
		}
	}

	for _, p := range batch.Plugins {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plugins (id, default_variant_id, plugin_type, name) VALUES (?, ?, ?, ?)`,
			p.ID, p.DefaultVariantID, p.PluginType, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert plugin %s: %w", p.ID, err)
		}
	}

	for _, v := range batch.Variants {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plugin_variants (
				id, plugin_id, name, description, docs, logo_url, pip_url,
				executable, repo, ext_repo, namespace, label, hidden,
				maintenance_status, quality, domain_url, definition,
				next_steps, settings_preamble, usage, prereq
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.PluginID, v.Name, v.Description, v.Docs, v.LogoURL,
			v.PipURL, v.Executable, v.Repo, v.ExtRepo, v.Namespace, v.Label,
			v.Hidden, v.MaintenanceStatus, v.Quality, v.DomainURL,
			v.Definition, v.NextSteps, v.SettingsPreamble, v.Usage, v.Prereq,
		)
		if err != nil {
			return fmt.Errorf("failed to insert variant %s: %w", v.ID, err)
		}
	}

	for _, st := range batch.Settings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (
				id, variant_id, name, label, description, documentation,
				placeholder, env, kind, value, options, sensitive
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, st.VariantID, st.Name, st.Label, st.Description,
			st.Documentation, st.Placeholder, st.Env, st.Kind, st.Value,
			st.Options, st.Sensitive,
		)
		if err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", st.ID, err)
		}
	}

	for _, a := range batch.SettingAlias {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO setting_aliases (id, setting_id, name) VALUES (?, ?, ?)`,
			a.ID, a.SettingID, a.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert setting alias %s: %w", a.ID, err)
		}
	}

	for _, g := range batch.SettingGroups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO setting_groups (variant_id, setting_id, group_id, position, setting_name) VALUES (?, ?, ?, ?, ?)`,
			g.VariantID, g.SettingID, g.GroupID, g.Position, g.SettingName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert setting group for %s: %w", g.VariantID, err)
		}
	}

	for _, c := range batch.Capabilities {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO capabilities (id, variant_id, name) VALUES (?, ?, ?)`,
			c.ID, c.VariantID, c.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert capability %s: %w", c.ID, err)
		}
	}

	for _, k := range batch.Keywords {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (id, variant_id, name) VALUES (?, ?, ?)`,
			k.ID, k.VariantID, k.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert keyword %s: %w", k.ID, err)
		}
	}

	for _, c := range batch.Commands {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO commands (id, variant_id, name, args, description, executable) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.VariantID, c.Name, c.Args, c.Description, c.Executable,
		)
		if err != nil {
			return fmt.Errorf("failed to insert command %s: %w", c.ID, err)
		}
	}

	for _, sel := range batch.Selects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO selects (id, variant_id, expression) VALUES (?, ?, ?)`,
			sel.ID, sel.VariantID, sel.Expression,
		)
		if err != nil {
			return fmt.Errorf("failed to insert select %s: %w", sel.ID, err)
		}
	}

	for _, m := range batch.Metadata {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO metadata (id, variant_id, key, value) VALUES (?, ?, ?, ?)`,
			m.ID, m.VariantID, m.Key, m.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert metadata %s: %w", m.ID, err)
		}
	}

	for _, r := range batch.Requires {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plugin_requires (id, variant_id, name, variant) VALUES (?, ?, ?, ?)`,
			r.ID, r.VariantID, r.Name, r.Variant,
		)
		if err != nil {
			return fmt.Errorf("failed to insert requirement %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}
