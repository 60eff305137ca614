// Package export renders the chat transcript into portable formats.
package export

import (
	"sort"

	"github.com/reportchat/reportchat/internal/session"
)

// Exporter renders a transcript to a string in a specific format.
type Exporter interface {
	Export(transcript []session.Turn) (string, error)
}

// registry maps format names to Exporter implementations.
var registry = map[string]Exporter{
	"markdown": &MarkdownExporter{},
	"json":     &JSONExporter{},
	"text":     &TextExporter{},
}

// Get returns the Exporter registered under name, and whether it was found.
func Get(name string) (Exporter, bool) {
	e, ok := registry[name]
	return e, ok
}

// ValidFormats returns the sorted list of supported format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}
