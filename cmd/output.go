// Package cmd provides output formatting utilities for unitctl CLI.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/trly/unitctl/internal/unit"
)

// PrintOutput formats and prints data according to the specified output format.
func PrintOutput(w io.Writer, format string, data interface{}) error {
	switch strings.ToLower(format) {
	case "json":
		return printJSON(w, data)
	case "yaml", "yml":
		return printYAML(w, data)
	case "text":
		return printText(w, data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// isStructured reports whether format is handled by PrintOutput rather than
// by the command's own text rendering.
func isStructured(format string) bool {
	switch strings.ToLower(format) {
	case "json", "yaml", "yml":
		return true
	}
	return false
}

func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// printText is the fallback for data without a dedicated text rendering.
func printText(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%+v\n", data)
	return err
}

// OperationResult is the structured result of a control command.
type OperationResult struct {
	Unit    string `json:"unit" yaml:"unit"`
	Scope   string `json:"scope" yaml:"scope"`
	Action  string `json:"action" yaml:"action"`
	Changed bool   `json:"changed" yaml:"changed"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
	Active  *bool  `json:"active,omitempty" yaml:"active,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

func newTable(w io.Writer, headers ...interface{}) table.Table {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	return table.New(headers...).
		WithWriter(w).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt)
}

// typeHeading returns the plural heading for a unit type, e.g. "Services".
func typeHeading(t unit.Type) string {
	return cases.Title(language.English).String(t.String() + "s")
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
