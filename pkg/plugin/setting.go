package plugin

import "encoding/json"

// Kind discriminates the setting union. An absent kind means string.
type Kind string

const (
	KindString      Kind = "string"
	KindInteger     Kind = "integer"
	KindDecimal     Kind = "decimal"
	KindBoolean     Kind = "boolean"
	KindDateISO8601 Kind = "date_iso8601"
	KindEmail       Kind = "email"
	KindPassword    Kind = "password"
	KindOAuth       Kind = "oauth"
	KindOptions     Kind = "options"
	KindFile        Kind = "file"
	KindArray       Kind = "array"
	KindObject      Kind = "object"
	KindHidden      Kind = "hidden"
)

// ParseKind validates a setting kind string. Empty input resolves to string.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindString, true
	}
	switch k := Kind(s); k {
	case KindString, KindInteger, KindDecimal, KindBoolean, KindDateISO8601,
		KindEmail, KindPassword, KindOAuth, KindOptions, KindFile,
		KindArray, KindObject, KindHidden:
		return k, true
	}
	return "", false
}

// Option is one selectable value of an options setting.
type Option struct {
	Value any     `json:"value" yaml:"value"`
	Label *string `json:"label,omitempty" yaml:"label"`
}

// SettingCommon holds the attributes shared by every setting kind.
type SettingCommon struct {
	Name          string
	Label         *string
	Description   *string
	Documentation *string
	Placeholder   *string
	Env           *string
	Aliases       []string
	Sensitive     *bool
	Value         any
}

// Setting is the closed union of setting kinds. Exactly one concrete type
// exists per Kind; only OptionsSetting carries an options list, which keeps
// the "options only with kind=options" invariant in the type system.
type Setting interface {
	Kind() Kind
	Common() SettingCommon
	// WithCommon returns a setting of the same kind with the shared
	// attributes replaced. Used by the compatibility layer to produce
	// modified copies without mutating cached documents.
	WithCommon(SettingCommon) Setting
}

type (
	StringSetting      struct{ SettingCommon }
	IntegerSetting     struct{ SettingCommon }
	DecimalSetting     struct{ SettingCommon }
	BooleanSetting     struct{ SettingCommon }
	DateISO8601Setting struct{ SettingCommon }
	EmailSetting       struct{ SettingCommon }
	PasswordSetting    struct{ SettingCommon }
	OAuthSetting       struct{ SettingCommon }
	FileSetting        struct{ SettingCommon }
	ArraySetting       struct{ SettingCommon }
	ObjectSetting      struct{ SettingCommon }
	HiddenSetting      struct{ SettingCommon }
)

// OptionsSetting is the only kind with an enumerated value list.
type OptionsSetting struct {
	SettingCommon
	Options []Option
}

func (StringSetting) Kind() Kind      { return KindString }
func (IntegerSetting) Kind() Kind     { return KindInteger }
func (DecimalSetting) Kind() Kind     { return KindDecimal }
func (BooleanSetting) Kind() Kind     { return KindBoolean }
func (DateISO8601Setting) Kind() Kind { return KindDateISO8601 }
func (EmailSetting) Kind() Kind       { return KindEmail }
func (PasswordSetting) Kind() Kind    { return KindPassword }
func (OAuthSetting) Kind() Kind       { return KindOAuth }
func (OptionsSetting) Kind() Kind     { return KindOptions }
func (FileSetting) Kind() Kind        { return KindFile }
func (ArraySetting) Kind() Kind       { return KindArray }
func (ObjectSetting) Kind() Kind      { return KindObject }
func (HiddenSetting) Kind() Kind      { return KindHidden }

func (s StringSetting) Common() SettingCommon      { return s.SettingCommon }
func (s IntegerSetting) Common() SettingCommon     { return s.SettingCommon }
func (s DecimalSetting) Common() SettingCommon     { return s.SettingCommon }
func (s BooleanSetting) Common() SettingCommon     { return s.SettingCommon }
func (s DateISO8601Setting) Common() SettingCommon { return s.SettingCommon }
func (s EmailSetting) Common() SettingCommon       { return s.SettingCommon }
func (s PasswordSetting) Common() SettingCommon    { return s.SettingCommon }
func (s OAuthSetting) Common() SettingCommon       { return s.SettingCommon }
func (s OptionsSetting) Common() SettingCommon     { return s.SettingCommon }
func (s FileSetting) Common() SettingCommon        { return s.SettingCommon }
func (s ArraySetting) Common() SettingCommon       { return s.SettingCommon }
func (s ObjectSetting) Common() SettingCommon      { return s.SettingCommon }
func (s HiddenSetting) Common() SettingCommon      { return s.SettingCommon }

func (s StringSetting) WithCommon(c SettingCommon) Setting      { s.SettingCommon = c; return s }
func (s IntegerSetting) WithCommon(c SettingCommon) Setting     { s.SettingCommon = c; return s }
func (s DecimalSetting) WithCommon(c SettingCommon) Setting     { s.SettingCommon = c; return s }
func (s BooleanSetting) WithCommon(c SettingCommon) Setting     { s.SettingCommon = c; return s }
func (s DateISO8601Setting) WithCommon(c SettingCommon) Setting { s.SettingCommon = c; return s }
func (s EmailSetting) WithCommon(c SettingCommon) Setting       { s.SettingCommon = c; return s }
func (s PasswordSetting) WithCommon(c SettingCommon) Setting    { s.SettingCommon = c; return s }
func (s OAuthSetting) WithCommon(c SettingCommon) Setting       { s.SettingCommon = c; return s }
func (s OptionsSetting) WithCommon(c SettingCommon) Setting     { s.SettingCommon = c; return s }
func (s FileSetting) WithCommon(c SettingCommon) Setting        { s.SettingCommon = c; return s }
func (s ArraySetting) WithCommon(c SettingCommon) Setting       { s.SettingCommon = c; return s }
func (s ObjectSetting) WithCommon(c SettingCommon) Setting      { s.SettingCommon = c; return s }
func (s HiddenSetting) WithCommon(c SettingCommon) Setting      { s.SettingCommon = c; return s }

// NewSetting builds the concrete setting for a kind. Options are only
// accepted for KindOptions; callers validate that pairing beforehand.
func NewSetting(kind Kind, common SettingCommon, options []Option) Setting {
	switch kind {
	case KindInteger:
		return IntegerSetting{common}
	case KindDecimal:
		return DecimalSetting{common}
	case KindBoolean:
		return BooleanSetting{common}
	case KindDateISO8601:
		return DateISO8601Setting{common}
	case KindEmail:
		return EmailSetting{common}
	case KindPassword:
		return PasswordSetting{common}
	case KindOAuth:
		return OAuthSetting{common}
	case KindOptions:
		return OptionsSetting{SettingCommon: common, Options: options}
	case KindFile:
		return FileSetting{common}
	case KindArray:
		return ArraySetting{common}
	case KindObject:
		return ObjectSetting{common}
	case KindHidden:
		return HiddenSetting{common}
	default:
		return StringSetting{common}
	}
}

// settingEnvelope is the wire shape shared by every kind.
type settingEnvelope struct {
	Name          string   `json:"name"`
	Kind          Kind     `json:"kind"`
	Aliases       []string `json:"aliases,omitempty"`
	Label         *string  `json:"label,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Documentation *string  `json:"documentation,omitempty"`
	Placeholder   *string  `json:"placeholder,omitempty"`
	Env           *string  `json:"env,omitempty"`
	Sensitive     *bool    `json:"sensitive,omitempty"`
	Value         any      `json:"value,omitempty"`
	Options       []Option `json:"options,omitempty"`
}

func marshalSetting(s Setting) ([]byte, error) {
	c := s.Common()
	env := settingEnvelope{
		Name:          c.Name,
		Kind:          s.Kind(),
		Aliases:       c.Aliases,
		Label:         c.Label,
		Description:   c.Description,
		Documentation: c.Documentation,
		Placeholder:   c.Placeholder,
		Env:           c.Env,
		Sensitive:     c.Sensitive,
		Value:         c.Value,
	}
	if opts, ok := s.(OptionsSetting); ok {
		env.Options = opts.Options
	}
	return json.Marshal(env)
}

func (s StringSetting) MarshalJSON() ([]byte, error)      { return marshalSetting(s) }
func (s IntegerSetting) MarshalJSON() ([]byte, error)     { return marshalSetting(s) }
func (s DecimalSetting) MarshalJSON() ([]byte, error)     { return marshalSetting(s) }
func (s BooleanSetting) MarshalJSON() ([]byte, error)     { return marshalSetting(s) }
func (s DateISO8601Setting) MarshalJSON() ([]byte, error) { return marshalSetting(s) }
func (s EmailSetting) MarshalJSON() ([]byte, error)       { return marshalSetting(s) }
func (s PasswordSetting) MarshalJSON() ([]byte, error)    { return marshalSetting(s) }
func (s OAuthSetting) MarshalJSON() ([]byte, error)       { return marshalSetting(s) }
func (s OptionsSetting) MarshalJSON() ([]byte, error)     { return marshalSetting(s) }
func (s FileSetting) MarshalJSON() ([]byte, error)        { return marshalSetting(s) }
func (s ArraySetting) MarshalJSON() ([]byte, error)       { return marshalSetting(s) }
func (s ObjectSetting) MarshalJSON() ([]byte, error)      { return marshalSetting(s) }
func (s HiddenSetting) MarshalJSON() ([]byte, error)      { return marshalSetting(s) }
