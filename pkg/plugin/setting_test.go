package plugin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingMarshalJSON(t *testing.T) {
	label := "Auth Token"
	sensitive := true
	s := PasswordSetting{SettingCommon{
		Name:      "auth_token",
		Label:     &label,
		Sensitive: &sensitive,
	}}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "auth_token",
		"kind": "password",
		"label": "Auth Token",
		"sensitive": true
	}`, string(data))
}

func TestSettingMarshalJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(StringSetting{SettingCommon{Name: "api_url"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "api_url", "kind": "string"}`, string(data))
}

func TestOptionsSettingMarshalJSON(t *testing.T) {
	full := "Full"
	s := OptionsSetting{
		SettingCommon: SettingCommon{Name: "mode"},
		Options: []Option{
			{Value: "full", Label: &full},
			{Value: "incremental"},
		},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "mode",
		"kind": "options",
		"options": [
			{"value": "full", "label": "Full"},
			{"value": "incremental"}
		]
	}`, string(data))
}

func TestSettingWithCommonCopies(t *testing.T) {
	orig := NewSetting(KindDecimal, SettingCommon{Name: "sample_rate"}, nil)

	c := orig.Common()
	sensitive := true
	c.Sensitive = &sensitive
	modified := orig.WithCommon(c)

	assert.Equal(t, KindDecimal, modified.Kind())
	require.NotNil(t, modified.Common().Sensitive)
	assert.Nil(t, orig.Common().Sensitive, "original must stay untouched")
}

func TestNewSettingPreservesOptions(t *testing.T) {
	s := NewSetting(KindOptions, SettingCommon{Name: "mode"}, []Option{{Value: 1}})
	opts, ok := s.(OptionsSetting)
	require.True(t, ok)
	require.Len(t, opts.Options, 1)

	// WithCommon keeps the option list through the value-copy round trip.
	kept, ok := s.WithCommon(s.Common()).(OptionsSetting)
	require.True(t, ok)
	assert.Equal(t, opts.Options, kept.Options)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("")
	require.True(t, ok)
	assert.Equal(t, KindString, k)

	k, ok = ParseKind("date_iso8601")
	require.True(t, ok)
	assert.Equal(t, KindDateISO8601, k)

	_, ok = ParseKind("telepathic")
	assert.False(t, ok)
}
