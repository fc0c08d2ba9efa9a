// Package plugin defines the Meltano Hub plugin domain model: plugin
// types, variant definitions, the kind-discriminated setting union, and
// the schema validation that turns raw YAML documents into typed
// definitions.
//
// Validation reports problems as Issue values rather than errors so that
// one malformed document never interrupts processing of its neighbors.
package plugin
