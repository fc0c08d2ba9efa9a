package plugin

import "fmt"

// Type identifies one of the plugin categories the hub catalogs.
type Type string

const (
	TypeExtractors    Type = "extractors"
	TypeLoaders       Type = "loaders"
	TypeTransformers  Type = "transformers"
	TypeUtilities     Type = "utilities"
	TypeTransforms    Type = "transforms"
	TypeOrchestrators Type = "orchestrators"
	TypeMappers       Type = "mappers"
	TypeFiles         Type = "files"
)

// Types returns all plugin types in declared order. Ingestion and index
// responses iterate in this order, not alphabetically.
func Types() []Type {
	return []Type{
		TypeExtractors,
		TypeLoaders,
		TypeTransformers,
		TypeUtilities,
		TypeTransforms,
		TypeOrchestrators,
		TypeMappers,
		TypeFiles,
	}
}

// ParseType validates a plugin type string.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeExtractors, TypeLoaders, TypeTransformers, TypeUtilities,
		TypeTransforms, TypeOrchestrators, TypeMappers, TypeFiles:
		return t, nil
	}
	return "", fmt.Errorf("'%s' is not a valid plugin type", s)
}

// MaintenanceStatus describes how actively a variant is maintained.
type MaintenanceStatus string

const (
	MaintenanceActive      MaintenanceStatus = "active"
	MaintenanceBeta        MaintenanceStatus = "beta"
	MaintenanceDevelopment MaintenanceStatus = "development"
	MaintenanceInactive    MaintenanceStatus = "inactive"
	MaintenanceUnknown     MaintenanceStatus = "unknown"
)

func validMaintenanceStatus(s string) bool {
	switch MaintenanceStatus(s) {
	case MaintenanceActive, MaintenanceBeta, MaintenanceDevelopment,
		MaintenanceInactive, MaintenanceUnknown:
		return true
	}
	return false
}

// Quality is the curation tier assigned to a variant.
type Quality string

const (
	QualityGold    Quality = "gold"
	QualitySilver  Quality = "silver"
	QualityBronze  Quality = "bronze"
	QualityUnknown Quality = "unknown"
)

func validQuality(s string) bool {
	switch Quality(s) {
	case QualityGold, QualitySilver, QualityBronze, QualityUnknown:
		return true
	}
	return false
}

// Capability enums are closed per plugin type. The sets match what the
// orchestrator understands; anything else is a validation error.

var extractorCapabilities = map[string]bool{
	"properties":        true,
	"catalog":           true,
	"discover":          true,
	"state":             true,
	"about":             true,
	"stream-maps":       true,
	"schema-flattening": true,
	"activate-version":  true,
	"batch":             true,
	"test":              true,
	"log-based":         true,
}

var loaderCapabilities = map[string]bool{
	"about":             true,
	"stream-maps":       true,
	"schema-flattening": true,
	"hard-delete":       true,
	"activate-version":  true,
}

var mapperCapabilities = map[string]bool{
	"stream-maps": true,
}

// capabilitySet returns the allowed capability names for a plugin type, or
// nil when the type does not declare capabilities at all.
func capabilitySet(t Type) map[string]bool {
	switch t {
	case TypeExtractors:
		return extractorCapabilities
	case TypeLoaders:
		return loaderCapabilities
	case TypeMappers:
		return mapperCapabilities
	default:
		return nil
	}
}
