package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltano/hub-api/pkg/plugin"
	"github.com/meltano/hub-api/pkg/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// writeTestData lays out a small hub data tree: two valid variants, one
// variant with a schema violation, and one plugin whose only variant is
// broken.
func writeTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "default_variants.yml"), `
extractors:
  tap-github: meltanolabs
  tap-broken: acme
loaders:
  target-jsonl: andyh1203
`)
	writeFile(t, filepath.Join(dir, "maintainers.yml"), `
meltanolabs:
  label: Meltano Labs
  url: https://github.com/MeltanoLabs
andyh1203:
  label: Andy
acme: {}
`)
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-github/meltanolabs.yml"), `
name: tap-github
namespace: tap_github
variant: meltanolabs
label: GitHub
repo: https://github.com/MeltanoLabs/tap-github
logo_url: /assets/logos/extractors/github.png
capabilities:
  - catalog
  - discover
keywords:
  - meltano_sdk
settings:
  - name: auth_token
    kind: password
    sensitive: true
    aliases:
      - token
  - name: rate_limit_buffer
    kind: integer
    value: 100
settings_group_validation:
  - [auth_token]
select:
  - "*.*"
metadata:
  commits:
    replication-method: INCREMENTAL
commands:
  about: --about
`)
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-github/singer-io.yml"), `
name: tap-github
namespace: tap_github
variant: singer-io
repo: https://github.com/singer-io/tap-github
capabilities:
  - catalog
  - levitate
`)
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-broken/acme.yml"), `
name: tap-broken
namespace: tap_broken
variant: acme
`)
	writeFile(t, filepath.Join(dir, "meltano/loaders/target-jsonl/andyh1203.yml"), `
name: target-jsonl
namespace: target_jsonl
variant: andyh1203
repo: https://github.com/andyh1203/target-jsonl
keywords:
  - meltano_sdk
`)

	return dir
}

func loadTestData(t *testing.T) (*storage.Store, *LoadResult) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "plugins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	loader := NewLoader(writeTestData(t), testLogger())
	result, err := loader.Load(context.Background(), store)
	require.NoError(t, err)
	return store, result
}

func TestLoadIsolatesBadDocuments(t *testing.T) {
	store, result := loadTestData(t)
	ctx := context.Background()

	// singer-io has one bad capability; tap-broken is missing repo and
	// capabilities. Each violation is its own report row.
	require.Len(t, result.Errors, 3)
	assert.True(t, result.HasErrors())

	byVariant := map[string]int{}
	for _, e := range result.Errors {
		byVariant[e.Variant+"/"+e.PluginName]++
	}
	assert.Equal(t, 1, byVariant["singer-io/tap-github"])
	assert.Equal(t, 2, byVariant["acme/tap-broken"])

	// The good documents made it in regardless.
	detail, err := store.GetVariant(ctx, "extractors.tap-github.meltanolabs")
	require.NoError(t, err)
	assert.Equal(t, "tap-github", detail.PluginName)

	_, err = store.GetVariant(ctx, "extractors.tap-github.singer-io")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetVariant(ctx, "loaders.target-jsonl.andyh1203")
	require.NoError(t, err)
}

func TestLoadErrorLinks(t *testing.T) {
	_, result := loadTestData(t)

	var link string
	for _, e := range result.Errors {
		if e.PluginName == "tap-github" {
			link = e.Link
		}
	}
	assert.Equal(t, DefaultSourceURL+"/meltano/extractors/tap-github/singer-io.yml", link)
}

func TestLoadClaimsDefaultVariantOfBrokenPlugin(t *testing.T) {
	store, _ := loadTestData(t)
	ctx := context.Background()

	// tap-broken's only document failed validation, but the plugin row
	// still claims its configured default variant.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats["extractors"])

	_, err = store.DefaultVariant(ctx, "extractors.tap-broken")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// And the dangling reference keeps it out of the index.
	rows, err := store.IndexRows(ctx, nil)
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, "tap-broken", r.PluginName)
	}
}

func TestLoadRows(t *testing.T) {
	store, _ := loadTestData(t)
	ctx := context.Background()
	variantID := "extractors.tap-github.meltanolabs"

	settings, err := store.VariantSettings(ctx, variantID)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "auth_token", settings[0].Name)
	assert.Equal(t, []string{"token"}, settings[0].Aliases)
	require.NotNil(t, settings[0].Kind)
	assert.Equal(t, "password", *settings[0].Kind)
	require.NotNil(t, settings[1].Value)
	assert.Equal(t, "100", *settings[1].Value)

	groups, err := store.SettingGroups(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"auth_token"}}, groups)

	capabilities, err := store.VariantCapabilities(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog", "discover"}, capabilities)

	metadata, err := store.VariantMetadata(ctx, variantID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"replication-method": "INCREMENTAL"}`, metadata["commits"])

	commands, err := store.VariantCommands(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, "--about", commands["about"].Args)

	maintainers, err := store.Maintainers(ctx)
	require.NoError(t, err)
	assert.Len(t, maintainers, 3)

	refs, err := store.SDKVariants(ctx, nil, 100)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestLoadKeysRowsByDirectoryName(t *testing.T) {
	dir := writeTestData(t)
	// The document declares a name that differs from its directory.
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-gitlab-fork/acme.yml"), `
name: tap-gitlab
namespace: tap_gitlab
variant: acme
repo: https://github.com/acme/tap-gitlab
capabilities:
  - catalog
`)

	store, err := storage.Open(filepath.Join(t.TempDir(), "plugins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	result, err := NewLoader(dir, testLogger()).Load(ctx, store)
	require.NoError(t, err)
	for _, e := range result.Errors {
		assert.NotEqual(t, "tap-gitlab-fork", e.PluginName)
	}

	// Rows key off the directory, so the mismatch cannot orphan the
	// variant from its plugin row.
	detail, err := store.GetVariant(ctx, "extractors.tap-gitlab-fork.acme")
	require.NoError(t, err)
	assert.Equal(t, "tap-gitlab-fork", detail.PluginName)

	// The rest of the tree is untouched by the mismatched document.
	_, err = store.GetVariant(ctx, "extractors.tap-github.meltanolabs")
	require.NoError(t, err)
	_, err = store.GetVariant(ctx, "loaders.target-jsonl.andyh1203")
	require.NoError(t, err)
}

func TestLoadRequiresSameNameAcrossTypes(t *testing.T) {
	dir := writeTestData(t)
	writeFile(t, filepath.Join(dir, "meltano/utilities/dbt-core/dbt-labs.yml"), `
name: dbt-core
namespace: dbt_core
variant: dbt-labs
repo: https://github.com/dbt-labs/dbt-core
requires:
  files:
    - name: files-dbt
      variant: meltano
  utilities:
    - name: files-dbt
      variant: meltano
`)

	store, err := storage.Open(filepath.Join(t.TempDir(), "plugins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	result, err := NewLoader(dir, testLogger()).Load(ctx, store)
	require.NoError(t, err)
	for _, e := range result.Errors {
		assert.NotEqual(t, "dbt-core", e.PluginName)
	}

	rows, err := store.DB().QueryContext(ctx,
		`SELECT id FROM plugin_requires WHERE variant_id = ? ORDER BY id`,
		"utilities.dbt-core.dbt-labs",
	)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{
		"utilities.dbt-core.dbt-labs.require_files_files-dbt",
		"utilities.dbt-core.dbt-labs.require_utilities_files-dbt",
	}, ids)
}

func TestLoadMetadataIDsAreStable(t *testing.T) {
	dir := writeTestData(t)
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-shop/acme.yml"), `
name: tap-shop
namespace: tap_shop
variant: acme
repo: https://github.com/acme/tap-shop
capabilities:
  - catalog
metadata:
  orders:
    replication-method: INCREMENTAL
  customers:
    replication-method: FULL_TABLE
  refunds:
    replication-method: INCREMENTAL
`)

	store, err := storage.Open(filepath.Join(t.TempDir(), "plugins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = NewLoader(dir, testLogger()).Load(ctx, store)
	require.NoError(t, err)

	rows, err := store.DB().QueryContext(ctx,
		`SELECT id, key FROM metadata WHERE variant_id = ? ORDER BY id`,
		"extractors.tap-shop.acme",
	)
	require.NoError(t, err)
	defer rows.Close()

	// Ids are assigned in key order, so repeated builds produce the same
	// rows.
	byID := map[string]string{}
	for rows.Next() {
		var id, key string
		require.NoError(t, rows.Scan(&id, &key))
		byID[id] = key
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, map[string]string{
		"extractors.tap-shop.acme.metadata_0": "customers",
		"extractors.tap-shop.acme.metadata_1": "orders",
		"extractors.tap-shop.acme.metadata_2": "refunds",
	}, byID)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeTestData(t)
	writeFile(t, filepath.Join(dir, "meltano/extractors/tap-mangled/acme.yml"), "{not yaml::\n  - ]")

	store, err := storage.Open(filepath.Join(t.TempDir(), "plugins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	result, err := NewLoader(dir, testLogger()).Load(context.Background(), store)
	require.NoError(t, err)

	found := false
	for _, e := range result.Errors {
		if e.PluginName == "tap-mangled" {
			found = true
			assert.Contains(t, e.Issue.Message, "invalid YAML")
		}
	}
	assert.True(t, found, "mangled document should be reported")
}

func TestLoadResultToMarkdown(t *testing.T) {
	result := &LoadResult{Errors: []LoadError{
		{
			PluginName: "tap-broken",
			Variant:    "acme",
			Link:       "https://example.com/acme.yml",
			Issue:      plugin.Issue{Path: "repo", Message: "field required"},
		},
	}}

	md := result.ToMarkdown()
	assert.Contains(t, md, "## Build Errors")
	assert.Contains(t, md, "| Plugin | Error | Value | Location |")
	assert.Contains(t, md, "| [acme/tap-broken](https://example.com/acme.yml) | field required | <nil> | repo |")
}
