package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/artpar/chartschema/ports"
)

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// FormatSchema formats a schema document as YAML.
func (f *YAMLFormatter) FormatSchema(w io.Writer, doc SchemaDoc, opts FormatOptions) error {
	return f.encode(w, documentOf(doc))
}

// FormatValidation formats a validation report as YAML.
func (f *YAMLFormatter) FormatValidation(w io.Writer, report Report, opts FormatOptions) error {
	return f.encode(w, reportOf(report))
}

// FormatSnapshots formats snapshot history as YAML.
func (f *YAMLFormatter) FormatSnapshots(w io.Writer, snapshots []ports.Snapshot, opts FormatOptions) error {
	return f.encode(w, snapshotsOf(snapshots))
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output)
}

// encode writes YAML to the writer.
func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

func init() {
	if err := Register(NewYAMLFormatter()); err != nil {
		fmt.Printf("failed to register yaml formatter: %v\n", err)
	}
}
