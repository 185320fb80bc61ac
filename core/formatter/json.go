package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artpar/chartschema/ports"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// FormatSchema formats a schema document as JSON.
func (f *JSONFormatter) FormatSchema(w io.Writer, doc SchemaDoc, opts FormatOptions) error {
	return f.encode(w, documentOf(doc), opts.Compact)
}

// FormatValidation formats a validation report as JSON.
func (f *JSONFormatter) FormatValidation(w io.Writer, report Report, opts FormatOptions) error {
	return f.encode(w, reportOf(report), opts.Compact)
}

// FormatSnapshots formats snapshot history as JSON.
func (f *JSONFormatter) FormatSnapshots(w io.Writer, snapshots []ports.Snapshot, opts FormatOptions) error {
	return f.encode(w, snapshotsOf(snapshots), opts.Compact)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output, false)
}

// encode writes JSON to the writer.
func (f *JSONFormatter) encode(w io.Writer, data any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

func init() {
	if err := Register(NewJSONFormatter()); err != nil {
		fmt.Printf("failed to register json formatter: %v\n", err)
	}
}
