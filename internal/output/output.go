// Package output formats CLI results as a table, compact lines, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

type Format int

const (
	FormatTable Format = iota
	FormatCompact
	FormatJSON
	FormatYAML
)

// Detect picks the format from flags, then $MAHAMI_OUTPUT. Default is table.
func Detect(jsonFlag, yamlFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case yamlFlag:
		return FormatYAML
	case compactFlag:
		return FormatCompact
	}
	switch os.Getenv("MAHAMI_OUTPUT") {
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}

func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Encode writes data as JSON or YAML according to f.
func Encode(w io.Writer, f Format, data any) error {
	if f == FormatYAML {
		return YAML(w, data)
	}
	return JSON(w, data)
}

func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func YAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

type ErrorResponse struct {
	Error   string         `json:"error" yaml:"error"`
	Code    string         `json:"code" yaml:"code"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// JSONError writes a structured error envelope. Write failures are ignored.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = JSON(w, ErrorResponse{Error: msg, Code: code, Details: details})
}

func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
