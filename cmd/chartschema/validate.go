package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/artpar/chartschema/core/formatter"
	"github.com/artpar/chartschema/core/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema> <glob>...",
	Short: "Validate layout files against a schema",
	Long: `Validate JSON or YAML layout files against a published schema.

Patterns support ** for recursive matching. Quote them so the shell does
not expand them first. The command exits non-zero when any layout is
invalid.

Examples:
  chartschema validate polar layout.json
  chartschema validate polar 'layouts/**/*.yaml' 'layouts/**/*.json'`,
	Args: cobra.MinimumNArgs(2),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	f, err := outputFormatter()
	if err != nil {
		return err
	}

	name := args[0]
	files, err := expandGlobs(args[1:])
	if err != nil {
		return err
	}

	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}
	g, err := reg.Get(name)
	if err != nil {
		return err
	}

	invalid := 0
	for _, file := range files {
		layout, err := readLayout(file)
		if err != nil {
			return err
		}
		result := validation.Validate(g, layout)
		if !result.Valid {
			invalid++
		}
		report := formatter.Report{Schema: name, Source: file, Result: result}
		if err := f.FormatValidation(cmd.OutOrStdout(), report, formatter.FormatOptions{}); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d layouts invalid", invalid, len(files))
	}
	return nil
}

// expandGlobs returns the sorted, de-duplicated files matching patterns.
// A pattern matching nothing is an error.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// readLayout parses a layout file by extension. Files that are neither
// .json nor .yaml/.yml are parsed as YAML, which accepts JSON too.
func readLayout(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var layout map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &layout)
	default:
		err = yaml.Unmarshal(data, &layout)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if layout == nil {
		return nil, fmt.Errorf("parse %s: layout must be an object", path)
	}
	return layout, nil
}
