package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeYAML(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return raw
}

const validExtractorYAML = `
name: tap-github
namespace: tap_github
variant: meltanolabs
label: GitHub
repo: https://github.com/MeltanoLabs/tap-github
pip_url: git+https://github.com/MeltanoLabs/tap-github.git
capabilities:
  - catalog
  - discover
  - state
keywords:
  - meltano_sdk
  - api
maintenance_status: active
quality: gold
settings:
  - name: auth_token
    kind: password
    label: Auth Token
    sensitive: true
  - name: rate_limit_buffer
    kind: integer
  - name: stream_mode
    kind: options
    options:
      - value: full
        label: Full
      - value: incremental
commands:
  sync: --config config.json
  about:
    args: --about
    description: Show plugin metadata
requires:
  loaders:
    - name: target-jsonl
      variant: andyh1203
select:
  - "*.*"
`

func TestValidateDefinition(t *testing.T) {
	raw := decodeYAML(t, validExtractorYAML)

	def, issues := ValidateDefinition(raw, TypeExtractors)
	require.Empty(t, issues)
	require.NotNil(t, def)

	assert.Equal(t, "tap-github", def.Name)
	assert.Equal(t, "tap_github", def.Namespace)
	assert.Equal(t, "meltanolabs", def.Variant)
	assert.Equal(t, TypeExtractors, def.Type)
	assert.Equal(t, []string{"catalog", "discover", "state"}, def.Capabilities)
	assert.Equal(t, []string{"*.*"}, def.Select)
	require.NotNil(t, def.MaintenanceStatus)
	assert.Equal(t, MaintenanceActive, *def.MaintenanceStatus)
	require.NotNil(t, def.Quality)
	assert.Equal(t, QualityGold, *def.Quality)

	require.Len(t, def.Settings, 3)
	assert.Equal(t, KindPassword, def.Settings[0].Kind())
	assert.Equal(t, "auth_token", def.Settings[0].Common().Name)
	require.NotNil(t, def.Settings[0].Common().Sensitive)
	assert.True(t, *def.Settings[0].Common().Sensitive)
	assert.Equal(t, KindInteger, def.Settings[1].Kind())

	opts, ok := def.Settings[2].(OptionsSetting)
	require.True(t, ok)
	require.Len(t, opts.Options, 2)
	assert.Equal(t, "full", opts.Options[0].Value)
	require.NotNil(t, opts.Options[0].Label)
	assert.Equal(t, "Full", *opts.Options[0].Label)
	assert.Nil(t, opts.Options[1].Label)

	require.Len(t, def.Commands, 2)
	assert.Equal(t, "--config config.json", def.Commands["sync"].Args)
	assert.Equal(t, "--about", def.Commands["about"].Args)
	require.NotNil(t, def.Commands["about"].Description)

	require.Len(t, def.Requires[TypeLoaders], 1)
	assert.Equal(t, Require{Name: "target-jsonl", Variant: "andyh1203"}, def.Requires[TypeLoaders][0])
}

func TestValidateDefinitionMissingRequired(t *testing.T) {
	def, issues := ValidateDefinition(map[string]any{}, TypeLoaders)
	assert.Nil(t, def)

	paths := issuePaths(issues)
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "namespace")
	assert.Contains(t, paths, "variant")
	assert.Contains(t, paths, "repo")
	for _, i := range issues {
		assert.Equal(t, "field required", i.Message)
	}
}

func TestValidateDefinitionRejectsUnknownField(t *testing.T) {
	raw := decodeYAML(t, `
name: target-postgres
namespace: target_postgres
variant: meltanolabs
repo: https://github.com/MeltanoLabs/target-postgres
frobnicate: true
`)

	def, issues := ValidateDefinition(raw, TypeLoaders)
	assert.Nil(t, def)
	require.Len(t, issues, 1)
	assert.Equal(t, "frobnicate", issues[0].Path)
	assert.Equal(t, "extra inputs are not permitted", issues[0].Message)
}

func TestValidateDefinitionTypeScopedFields(t *testing.T) {
	// select is an extractor field and must not leak into loader docs.
	raw := decodeYAML(t, `
name: target-postgres
namespace: target_postgres
variant: meltanolabs
repo: https://github.com/MeltanoLabs/target-postgres
select:
  - "*.*"
`)

	def, issues := ValidateDefinition(raw, TypeLoaders)
	assert.Nil(t, def)
	require.Len(t, issues, 1)
	assert.Equal(t, "select", issues[0].Path)
}

func TestValidateDefinitionCapabilities(t *testing.T) {
	t.Run("required for extractors", func(t *testing.T) {
		raw := decodeYAML(t, `
name: tap-csv
namespace: tap_csv
variant: meltanolabs
repo: https://github.com/MeltanoLabs/tap-csv
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		assert.Contains(t, issuePaths(issues), "capabilities")
	})

	t.Run("optional for loaders", func(t *testing.T) {
		raw := decodeYAML(t, `
name: target-jsonl
namespace: target_jsonl
variant: andyh1203
repo: https://github.com/andyh1203/target-jsonl
`)
		def, issues := ValidateDefinition(raw, TypeLoaders)
		require.Empty(t, issues)
		assert.Nil(t, def.Capabilities)
	})

	t.Run("unknown capability rejected", func(t *testing.T) {
		raw := decodeYAML(t, `
name: tap-csv
namespace: tap_csv
variant: meltanolabs
repo: https://github.com/MeltanoLabs/tap-csv
capabilities:
  - discover
  - levitate
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		require.Len(t, issues, 1)
		assert.Equal(t, "capabilities.1", issues[0].Path)
		assert.Equal(t, "levitate", issues[0].Value)
	})
}

func TestValidateDefinitionSettings(t *testing.T) {
	base := `
name: tap-example
namespace: tap_example
variant: acme
repo: https://github.com/acme/tap-example
capabilities:
  - discover
`

	t.Run("kind defaults to string", func(t *testing.T) {
		raw := decodeYAML(t, base+`
settings:
  - name: api_url
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		require.Empty(t, issues)
		require.Len(t, def.Settings, 1)
		assert.Equal(t, KindString, def.Settings[0].Kind())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		raw := decodeYAML(t, base+`
settings:
  - name: api_url
    kind: telepathic
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		require.Len(t, issues, 1)
		assert.Equal(t, "settings.0.kind", issues[0].Path)
	})

	t.Run("options require options kind", func(t *testing.T) {
		raw := decodeYAML(t, base+`
settings:
  - name: mode
    kind: string
    options:
      - value: a
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		require.Len(t, issues, 1)
		assert.Equal(t, "settings.0.options", issues[0].Path)
		assert.Equal(t, "options are only permitted with kind 'options'", issues[0].Message)
	})

	t.Run("name required", func(t *testing.T) {
		raw := decodeYAML(t, base+`
settings:
  - kind: password
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		require.Len(t, issues, 1)
		assert.Equal(t, "settings.0.name", issues[0].Path)
	})

	t.Run("bad setting does not hide good neighbors", func(t *testing.T) {
		raw := decodeYAML(t, base+`
settings:
  - name: good_one
  - name: bad_one
    kind: telepathic
  - name: good_two
`)
		def, issues := ValidateDefinition(raw, TypeExtractors)
		assert.Nil(t, def)
		require.Len(t, issues, 1)
		assert.Equal(t, "settings.1.kind", issues[0].Path)
	})
}

func TestValidateDefinitionRequiresBadType(t *testing.T) {
	raw := decodeYAML(t, `
name: tap-example
namespace: tap_example
variant: acme
repo: https://github.com/acme/tap-example
capabilities:
  - discover
requires:
  widgets:
    - name: nope
      variant: nope
`)
	def, issues := ValidateDefinition(raw, TypeExtractors)
	assert.Nil(t, def)
	require.Len(t, issues, 1)
	assert.Equal(t, "requires.widgets", issues[0].Path)
	assert.Equal(t, "not a valid plugin type", issues[0].Message)
}

func TestValidateDefinitionBadURL(t *testing.T) {
	raw := decodeYAML(t, `
name: target-jsonl
namespace: target_jsonl
variant: andyh1203
repo: not-a-url
`)
	def, issues := ValidateDefinition(raw, TypeLoaders)
	assert.Nil(t, def)
	require.Len(t, issues, 1)
	assert.Equal(t, "repo", issues[0].Path)
	assert.Equal(t, "input should be a valid URL", issues[0].Message)
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		parsed, err := ParseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := ParseType("widgets")
	require.Error(t, err)
	assert.Equal(t, "'widgets' is not a valid plugin type", err.Error())
}

func TestTypesOrder(t *testing.T) {
	assert.Equal(t, []Type{
		TypeExtractors, TypeLoaders, TypeTransformers, TypeUtilities,
		TypeTransforms, TypeOrchestrators, TypeMappers, TypeFiles,
	}, Types())
}

func issuePaths(issues []Issue) []string {
	paths := make([]string, 0, len(issues))
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}
