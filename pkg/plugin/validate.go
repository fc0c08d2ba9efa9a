package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// Issue is one schema violation found in a definition document. Validation
// reports issues as data; a bad document never aborts the batch it arrived
// in, so callers attach plugin/variant identity and keep going.
type Issue struct {
	Path    string // dotted field path, e.g. "settings.0.kind"
	Value   any    // the offending input value
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (input: %v)", i.Path, i.Message, i.Value)
}

// commonFields are accepted for every plugin type.
var commonFields = []string{
	"name", "namespace", "variant", "label", "description", "docs",
	"logo_url", "pip_url", "executable", "repo", "ext_repo", "python",
	"hidden", "settings", "settings_group_validation", "commands",
	"requires", "keywords", "maintenance_status", "quality", "domain_url",
	"definition", "next_steps", "settings_preamble", "usage", "prereq",
}

func extraFields(t Type) []string {
	switch t {
	case TypeExtractors:
		return []string{"capabilities", "metadata", "select", "schema"}
	case TypeLoaders:
		return []string{"capabilities", "target_schema", "dialect"}
	case TypeMappers:
		return []string{"capabilities"}
	case TypeTransforms:
		return []string{"vars"}
	case TypeFiles:
		return []string{"update"}
	default:
		return nil
	}
}

// ValidateDefinition checks one raw document against the schema for the
// plugin type it was filed under. It returns the typed definition on
// success, or the collected issues on failure. It never panics and never
// returns a Go error: malformed input is always reported as issues.
func ValidateDefinition(raw map[string]any, t Type) (*Definition, []Issue) {
	d := &decoder{raw: raw, seen: map[string]bool{}}
	def := &Definition{Type: t}

	def.Name = d.reqString("name")
	def.Namespace = d.reqString("namespace")
	def.Variant = d.reqString("variant")
	def.Repo = d.reqURL("repo")

	def.Label = d.optString("label")
	def.Description = d.optString("description")
	def.Docs = d.optURL("docs")
	def.LogoURL = d.optString("logo_url")
	def.PipURL = d.optString("pip_url")
	def.Executable = d.optString("executable")
	def.ExtRepo = d.optURL("ext_repo")
	def.Python = d.optString("python")
	def.Hidden = d.optBool("hidden")

	def.Keywords = d.stringList("keywords")
	def.DomainURL = d.optURL("domain_url")
	def.DefinitionText = d.optString("definition")
	def.NextSteps = d.optString("next_steps")
	def.SettingsPreamble = d.optString("settings_preamble")
	def.Usage = d.optString("usage")
	def.Prereq = d.optString("prereq")

	if s := d.optString("maintenance_status"); s != nil {
		if validMaintenanceStatus(*s) {
			ms := MaintenanceStatus(*s)
			def.MaintenanceStatus = &ms
		} else {
			d.add("maintenance_status", *s, "not a valid maintenance status")
		}
	}
	if s := d.optString("quality"); s != nil {
		if validQuality(*s) {
			q := Quality(*s)
			def.Quality = &q
		} else {
			d.add("quality", *s, "not a valid quality level")
		}
	}

	def.Settings = d.settings("settings")
	def.SettingsGroupValidation = d.settingGroups("settings_group_validation")
	def.Commands = d.commands("commands")
	def.Requires = d.requires("requires")

	switch t {
	case TypeExtractors:
		def.Capabilities = d.capabilities("capabilities", t, true)
		def.Select = d.stringList("select")
		def.Metadata = d.anyMap("metadata")
		def.Schema = d.anyMap("schema")
	case TypeLoaders:
		def.Capabilities = d.capabilities("capabilities", t, false)
		def.TargetSchema = d.optString("target_schema")
		def.Dialect = d.optString("dialect")
	case TypeMappers:
		def.Capabilities = d.capabilities("capabilities", t, true)
	case TypeTransforms:
		def.Vars = d.anyMap("vars")
	case TypeFiles:
		def.Update = d.boolMap("update")
	}

	d.rejectUnknown(append(append([]string{}, commonFields...), extraFields(t)...))

	if len(d.issues) > 0 {
		return nil, d.issues
	}
	return def, nil
}

// decoder walks a raw document, accumulating issues and tracking which keys
// were consumed so leftovers can be rejected.
type decoder struct {
	raw    map[string]any
	seen   map[string]bool
	issues []Issue
}

func (d *decoder) add(path string, value any, msg string) {
	d.issues = append(d.issues, Issue{Path: path, Value: value, Message: msg})
}

func (d *decoder) take(key string) (any, bool) {
	d.seen[key] = true
	v, ok := d.raw[key]
	return v, ok && v != nil
}

func (d *decoder) reqString(key string) string {
	v, ok := d.take(key)
	if !ok {
		d.add(key, nil, "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.add(key, v, "input should be a valid string")
		return ""
	}
	return s
}

func (d *decoder) optString(key string) *string {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.add(key, v, "input should be a valid string")
		return nil
	}
	return &s
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (d *decoder) reqURL(key string) string {
	s := d.reqString(key)
	if s != "" && !isURL(s) {
		d.add(key, s, "input should be a valid URL")
	}
	return s
}

func (d *decoder) optURL(key string) *string {
	s := d.optString(key)
	if s != nil && !isURL(*s) {
		d.add(key, *s, "input should be a valid URL")
		return nil
	}
	return s
}

func (d *decoder) optBool(key string) *bool {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		d.add(key, v, "input should be a valid boolean")
		return nil
	}
	return &b
}

func (d *decoder) stringList(key string) []string {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		d.add(key, v, "input should be a valid list")
		return nil
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			d.add(fmt.Sprintf("%s.%d", key, i), item, "input should be a valid string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *decoder) anyMap(key string) map[string]any {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.add(key, v, "input should be a valid mapping")
		return nil
	}
	return m
}

func (d *decoder) boolMap(key string) map[string]bool {
	raw := d.anyMap(key)
	if raw == nil {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		b, ok := v.(bool)
		if !ok {
			d.add(key+"."+k, v, "input should be a valid boolean")
			continue
		}
		out[k] = b
	}
	return out
}

func (d *decoder) capabilities(key string, t Type, required bool) []string {
	v, ok := d.take(key)
	if !ok {
		if required {
			d.add(key, nil, "field required")
		}
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		d.add(key, v, "input should be a valid list")
		return nil
	}
	allowed := capabilitySet(t)
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			d.add(fmt.Sprintf("%s.%d", key, i), item, "input should be a valid string")
			continue
		}
		if !allowed[s] {
			d.add(fmt.Sprintf("%s.%d", key, i), s, fmt.Sprintf("not a valid %s capability", strings.TrimSuffix(string(t), "s")))
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *decoder) settingGroups(key string) [][]string {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		d.add(key, v, "input should be a valid list")
		return nil
	}
	out := make([][]string, 0, len(list))
	for i, item := range list {
		group, ok := item.([]any)
		if !ok {
			d.add(fmt.Sprintf("%s.%d", key, i), item, "input should be a valid list")
			continue
		}
		names := make([]string, 0, len(group))
		for j, n := range group {
			s, ok := n.(string)
			if !ok {
				d.add(fmt.Sprintf("%s.%d.%d", key, i, j), n, "input should be a valid string")
				continue
			}
			names = append(names, s)
		}
		out = append(out, names)
	}
	return out
}

func (d *decoder) commands(key string) map[string]Command {
	raw := d.anyMap(key)
	if raw == nil {
		return nil
	}
	out := make(map[string]Command, len(raw))
	for name, v := range raw {
		path := key + "." + name
		switch cmd := v.(type) {
		case string:
			out[name] = Command{Args: cmd}
		case map[string]any:
			c := Command{}
			for k, val := range cmd {
				switch k {
				case "args":
					if s, ok := val.(string); ok {
						c.Args = s
					} else {
						d.add(path+".args", val, "input should be a valid string")
					}
				case "description":
					if s, ok := val.(string); ok {
						c.Description = &s
					} else {
						d.add(path+".description", val, "input should be a valid string")
					}
				case "executable":
					if s, ok := val.(string); ok {
						c.Executable = &s
					} else {
						d.add(path+".executable", val, "input should be a valid string")
					}
				case "container_spec":
					// Accepted but not cataloged.
				default:
					d.add(path+"."+k, val, "extra inputs are not permitted")
				}
			}
			out[name] = c
		default:
			d.add(path, v, "input should be a string or a command mapping")
		}
	}
	return out
}

func (d *decoder) requires(key string) map[Type][]Require {
	raw := d.anyMap(key)
	if raw == nil {
		return nil
	}
	out := make(map[Type][]Require, len(raw))
	for typeName, v := range raw {
		path := key + "." + typeName
		t, err := ParseType(typeName)
		if err != nil {
			d.add(path, typeName, "not a valid plugin type")
			continue
		}
		list, ok := v.([]any)
		if !ok {
			d.add(path, v, "input should be a valid list")
			continue
		}
		reqs := make([]Require, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				d.add(fmt.Sprintf("%s.%d", path, i), item, "input should be a valid mapping")
				continue
			}
			r := Require{}
			if name, ok := m["name"].(string); ok {
				r.Name = name
			} else {
				d.add(fmt.Sprintf("%s.%d.name", path, i), m["name"], "field required")
			}
			if variant, ok := m["variant"].(string); ok {
				r.Variant = variant
			} else {
				d.add(fmt.Sprintf("%s.%d.variant", path, i), m["variant"], "field required")
			}
			reqs = append(reqs, r)
		}
		out[t] = reqs
	}
	return out
}

func (d *decoder) settings(key string) []Setting {
	v, ok := d.take(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		d.add(key, v, "input should be a valid list")
		return nil
	}
	out := make([]Setting, 0, len(list))
	for i, item := range list {
		if s, ok := d.setting(fmt.Sprintf("%s.%d", key, i), item); ok {
			out = append(out, s)
		}
	}
	return out
}

// setting validates one entry of the settings list as a union discriminated
// on its kind field.
func (d *decoder) setting(path string, raw any) (Setting, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		d.add(path, raw, "input should be a valid mapping")
		return nil, false
	}

	before := len(d.issues)
	kind := KindString
	if v, present := m["kind"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			d.add(path+".kind", v, "input should be a valid string")
			return nil, false
		}
		kind, ok = ParseKind(s)
		if !ok {
			d.add(path+".kind", s, "not a valid setting kind")
			return nil, false
		}
	}

	c := SettingCommon{}
	var options []Option
	for k, v := range m {
		fp := path + "." + k
		switch k {
		case "kind":
			// Consumed above.
		case "name":
			if s, ok := v.(string); ok {
				c.Name = s
			} else {
				d.add(fp, v, "input should be a valid string")
			}
		case "label":
			c.Label = d.settingString(fp, v)
		case "description":
			c.Description = d.settingString(fp, v)
		case "documentation":
			c.Documentation = d.settingString(fp, v)
		case "placeholder":
			c.Placeholder = d.settingString(fp, v)
		case "env":
			c.Env = d.settingString(fp, v)
		case "aliases":
			if list, ok := v.([]any); ok {
				for i, a := range list {
					if s, ok := a.(string); ok {
						c.Aliases = append(c.Aliases, s)
					} else {
						d.add(fmt.Sprintf("%s.%d", fp, i), a, "input should be a valid string")
					}
				}
			} else {
				d.add(fp, v, "input should be a valid list")
			}
		case "sensitive":
			if v == nil {
				break
			}
			if b, ok := v.(bool); ok {
				c.Sensitive = &b
			} else {
				d.add(fp, v, "input should be a valid boolean")
			}
		case "value":
			c.Value = v
		case "options":
			if kind != KindOptions {
				d.add(fp, v, "options are only permitted with kind 'options'")
				break
			}
			options = d.settingOptions(fp, v)
		default:
			d.add(fp, v, "extra inputs are not permitted")
		}
	}

	if c.Name == "" {
		if _, present := m["name"]; !present {
			d.add(path+".name", nil, "field required")
		}
	}

	if len(d.issues) > before {
		return nil, false
	}
	return NewSetting(kind, c, options), true
}

func (d *decoder) settingString(path string, v any) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.add(path, v, "input should be a valid string")
		return nil
	}
	return &s
}

func (d *decoder) settingOptions(path string, v any) []Option {
	list, ok := v.([]any)
	if !ok {
		d.add(path, v, "input should be a valid list")
		return nil
	}
	out := make([]Option, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			d.add(fmt.Sprintf("%s.%d", path, i), item, "input should be a valid mapping")
			continue
		}
		opt := Option{}
		if _, present := m["value"]; !present {
			d.add(fmt.Sprintf("%s.%d.value", path, i), nil, "field required")
			continue
		}
		opt.Value = m["value"]
		if label, present := m["label"]; present && label != nil {
			if s, ok := label.(string); ok {
				opt.Label = &s
			} else {
				d.add(fmt.Sprintf("%s.%d.label", path, i), label, "input should be a valid string")
				continue
			}
		}
		out = append(out, opt)
	}
	return out
}

func (d *decoder) rejectUnknown(allowed []string) {
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	var unknown []string
	for k := range d.raw {
		if !ok[k] && !d.seen[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		d.add(k, d.raw[k], "extra inputs are not permitted")
	}
}
