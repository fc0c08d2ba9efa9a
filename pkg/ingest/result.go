package ingest

import (
	"fmt"
	"strings"

	"github.com/meltano/hub-api/pkg/plugin"
)

// LoadError is one validation failure attached to the document it came
// from.
type LoadError struct {
	PluginName string
	Variant    string
	Link       string
	Issue      plugin.Issue
}

// LoadResult reports what a catalog load produced.
type LoadResult struct {
	Errors []LoadError
}

// HasErrors reports whether any document failed validation.
func (r *LoadResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ToMarkdown renders the errors as a Markdown table suitable for a build
// report.
func (r *LoadResult) ToMarkdown() string {
	var b strings.Builder
	b.WriteString("## Build Errors\n\n")
	b.WriteString("| Plugin | Error | Value | Location |\n")
	b.WriteString("|--------|---------|------|----------|\n")

	rows := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		rows = append(rows, fmt.Sprintf(
			"| [%s/%s](%s) | %s | %v | %s |",
			e.Variant, e.PluginName, e.Link,
			e.Issue.Message, e.Issue.Value, e.Issue.Path,
		))
	}
	b.WriteString(strings.Join(rows, "\n"))

	return b.String()
}
