package plugin

import "fmt"

// PluginID is the catalog identifier for a plugin, e.g.
// "extractors.tap-github".
func PluginID(t Type, name string) string {
	return fmt.Sprintf("%s.%s", t, name)
}

// VariantID is the catalog identifier for one variant of a plugin, e.g.
// "extractors.tap-github.meltanolabs".
func VariantID(t Type, name, variant string) string {
	return fmt.Sprintf("%s.%s", PluginID(t, name), variant)
}
