package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`DROP TABLE IF EXISTS setting_aliases`,
	`DROP TABLE IF EXISTS setting_groups`,
	`DROP TABLE IF EXISTS settings`,
	`DROP TABLE IF EXISTS capabilities`,
	`DROP TABLE IF EXISTS keywords`,
	`DROP TABLE IF EXISTS commands`,
	`DROP TABLE IF EXISTS selects`,
	`DROP TABLE IF EXISTS metadata`,
	`DROP TABLE IF EXISTS plugin_requires`,
	`DROP TABLE IF EXISTS plugin_variants`,
	`DROP TABLE IF EXISTS plugins`,
	`DROP TABLE IF EXISTS maintainers`,

	`CREATE TABLE maintainers (
		id TEXT PRIMARY KEY,
		name TEXT,
		label TEXT,
		url TEXT
	)`,

	`CREATE TABLE plugins (
		id TEXT PRIMARY KEY,
		default_variant_id TEXT NOT NULL,
		plugin_type TEXT NOT NULL,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE plugin_variants (
		id TEXT PRIMARY KEY,
		plugin_id TEXT NOT NULL REFERENCES plugins (id),
		name TEXT NOT NULL,
		description TEXT,
		docs TEXT,
		logo_url TEXT,
		pip_url TEXT,
		executable TEXT,
		repo TEXT,
		ext_repo TEXT,
		namespace TEXT NOT NULL,
		label TEXT,
		hidden BOOLEAN,
		maintenance_status TEXT,
		quality TEXT,
		domain_url TEXT,
		definition TEXT,
		next_steps TEXT,
		settings_preamble TEXT,
		usage TEXT,
		prereq TEXT
	)`,
	`CREATE INDEX ix_plugin_variants_plugin_id ON plugin_variants (plugin_id)`,
	`CREATE INDEX ix_plugin_variants_name ON plugin_variants (name)`,

	`CREATE TABLE settings (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		name TEXT NOT NULL,
		label TEXT,
		description TEXT,
		documentation TEXT,
		placeholder TEXT,
		env TEXT,
		kind TEXT,
		value TEXT,
		options TEXT,
		sensitive BOOLEAN
	)`,
	`CREATE INDEX ix_settings_variant_id ON settings (variant_id)`,

	`CREATE TABLE setting_aliases (
		id TEXT PRIMARY KEY,
		setting_id TEXT NOT NULL REFERENCES settings (id),
		name TEXT NOT NULL
	)`,
	`CREATE INDEX ix_setting_aliases_setting_id ON setting_aliases (setting_id)`,

	`CREATE TABLE setting_groups (
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		setting_id TEXT NOT NULL,
		group_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		setting_name TEXT NOT NULL,
		PRIMARY KEY (variant_id, group_id, setting_name)
	)`,

	`CREATE TABLE capabilities (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		name TEXT NOT NULL
	)`,
	`CREATE INDEX ix_capabilities_variant_id ON capabilities (variant_id)`,

	`CREATE TABLE keywords (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		name TEXT NOT NULL
	)`,
	`CREATE INDEX ix_keywords_variant_id ON keywords (variant_id)`,

	`CREATE TABLE commands (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		name TEXT NOT NULL,
		args TEXT NOT NULL,
		description TEXT,
		executable TEXT
	)`,
	`CREATE INDEX ix_commands_variant_id ON commands (variant_id)`,

	`CREATE TABLE selects (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		expression TEXT NOT NULL
	)`,
	`CREATE INDEX ix_selects_variant_id ON selects (variant_id)`,

	`CREATE TABLE metadata (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		key TEXT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX ix_metadata_variant_id ON metadata (variant_id)`,

	`CREATE TABLE plugin_requires (
		id TEXT PRIMARY KEY,
		variant_id TEXT NOT NULL REFERENCES plugin_variants (id),
		name TEXT NOT NULL,
		variant TEXT NOT NULL
	)`,
	`CREATE INDEX ix_plugin_requires_variant_id ON plugin_requires (variant_id)`,
}

// CreateSchema drops and recreates every catalog table. The database is
// rebuilt from scratch on each load, so there is no migration path.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
