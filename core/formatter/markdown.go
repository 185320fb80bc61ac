package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/ports"
)

// MarkdownFormatter renders reference documentation.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the formatter name.
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Description returns the formatter description.
func (f *MarkdownFormatter) Description() string {
	return "Markdown reference documentation"
}

// FormatSchema writes one section per attribute, in path order.
func (f *MarkdownFormatter) FormatSchema(w io.Writer, doc SchemaDoc, opts FormatOptions) error {
	title := doc.Name
	if doc.Path != "" {
		title += "." + doc.Path
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	if g, ok := doc.Node.(schema.Group); ok && g.EditType != "" {
		fmt.Fprintf(&b, "\nReplacing the whole group triggers `%s`.\n", g.EditType)
	}

	for _, row := range leafRows(doc.Path, doc.Node) {
		fmt.Fprintf(&b, "\n## `%s`\n\n", row.Path)
		fmt.Fprintf(&b, "- **Type:** %s\n", row.Kind)
		if row.Default != nil {
			fmt.Fprintf(&b, "- **Default:** `%s`\n", markdownValue(row.Default))
		}
		if row.Constraints != "" {
			fmt.Fprintf(&b, "- **Constraints:** %s\n", row.Constraints)
		}
		fmt.Fprintf(&b, "- **Edit type:** `%s`\n", row.EditType)
		if row.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", row.Description)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatValidation writes the findings as a bullet list.
func (f *MarkdownFormatter) FormatValidation(w io.Writer, report Report, opts FormatOptions) error {
	source := report.Source
	if source == "" {
		source = report.Schema
	}

	var b strings.Builder
	status := "valid"
	if !report.Result.Valid {
		status = "invalid"
	}
	fmt.Fprintf(&b, "### %s: %s\n", source, status)
	if len(report.Result.Errors) > 0 || len(report.Result.Warnings) > 0 {
		b.WriteString("\n")
	}
	for _, e := range report.Result.Errors {
		fmt.Fprintf(&b, "- **error** `%s` (%s): %s\n", e.Field, e.Constraint, e.Message)
	}
	for _, warn := range report.Result.Warnings {
		fmt.Fprintf(&b, "- **warning** `%s`: %s\n", warn.Field, warn.Message)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatSnapshots writes the history as a markdown table.
func (f *MarkdownFormatter) FormatSnapshots(w io.Writer, snapshots []ports.Snapshot, opts FormatOptions) error {
	if len(snapshots) == 0 {
		_, err := io.WriteString(w, "_No snapshots found._\n")
		return err
	}

	var b strings.Builder
	b.WriteString("| ID | Schema | Revision | Hash | Created |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, s := range snapshots {
		fmt.Fprintf(&b, "| %s | %s | %d | `%s` | %s |\n",
			s.ID, s.Schema, s.Revision, shortHash(s.Hash), s.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatError formats an error message.
func (f *MarkdownFormatter) FormatError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "> **Error:** %s\n", err.Error())
	return werr
}

func markdownValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func init() {
	if err := Register(NewMarkdownFormatter()); err != nil {
		fmt.Printf("failed to register markdown formatter: %v\n", err)
	}
}
