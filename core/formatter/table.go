package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/artpar/chartschema/ports"
)

// TableFormatter formats output as aligned text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output"
}

// FormatSchema formats every descriptor below the document node as one row.
func (f *TableFormatter) FormatSchema(w io.Writer, doc SchemaDoc, opts FormatOptions) error {
	rows := leafRows(doc.Path, doc.Node)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No attributes found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "PATH\tTYPE\tDEFAULT\tEDIT TYPE\tCONSTRAINTS")
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Path,
			row.Kind,
			f.formatValue(row.Default, opts.MaxWidth),
			row.EditType,
			f.truncate(orDash(row.Constraints), opts.MaxWidth),
		)
	}
	return tw.Flush()
}

// FormatValidation formats a validation report as a findings table.
func (f *TableFormatter) FormatValidation(w io.Writer, report Report, opts FormatOptions) error {
	source := report.Source
	if source == "" {
		source = report.Schema
	}

	if report.Result.Valid && len(report.Result.Warnings) == 0 {
		fmt.Fprintf(w, "%s: valid\n", source)
		return nil
	}

	if report.Result.Valid {
		fmt.Fprintf(w, "%s: valid with %d warning(s)\n", source, len(report.Result.Warnings))
	} else {
		fmt.Fprintf(w, "%s: %d error(s)\n", source, len(report.Result.Errors))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "LEVEL\tFIELD\tRULE\tMESSAGE")
	}
	for _, e := range report.Result.Errors {
		fmt.Fprintf(tw, "error\t%s\t%s\t%s\n", e.Field, e.Constraint, f.truncate(e.Message, opts.MaxWidth))
	}
	for _, warn := range report.Result.Warnings {
		fmt.Fprintf(tw, "warning\t%s\t-\t%s\n", warn.Field, f.truncate(warn.Message, opts.MaxWidth))
	}
	return tw.Flush()
}

// FormatSnapshots formats snapshot history, one row per snapshot.
func (f *TableFormatter) FormatSnapshots(w io.Writer, snapshots []ports.Snapshot, opts FormatOptions) error {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "ID\tSCHEMA\tREVISION\tHASH\tSIZE\tCREATED")
	}
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			s.ID, s.Schema, s.Revision, shortHash(s.Hash), s.Size,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.Flush()
}

// FormatError formats an error message.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	fmt.Fprintf(w, "Error: %s\n", err.Error())
	return nil
}

// formatValue formats a value for display.
func (f *TableFormatter) formatValue(val any, maxWidth int) string {
	if val == nil {
		return "-"
	}

	var str string
	switch v := val.(type) {
	case string:
		str = fmt.Sprintf("%q", v)
	case bool:
		str = fmt.Sprintf("%t", v)
	case float64:
		if v == float64(int64(v)) {
			str = fmt.Sprintf("%d", int64(v))
		} else {
			str = fmt.Sprintf("%g", v)
		}
	case int:
		str = fmt.Sprintf("%d", v)
	default:
		b, _ := json.Marshal(v)
		str = string(b)
	}

	return f.truncate(str, maxWidth)
}

func (f *TableFormatter) truncate(str string, maxWidth int) string {
	if maxWidth > 3 && len(str) > maxWidth {
		return str[:maxWidth-3] + "..."
	}
	return str
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func init() {
	Register(NewTableFormatter())
}
