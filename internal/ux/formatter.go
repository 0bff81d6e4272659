// Package ux provides output formatting shared by all CLI commands.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Formatter renders a command's structured output (plugin listings,
// dependency reports) in one machine-readable encoding. The human-readable
// text renderings live with the commands themselves; a Formatter only
// covers the --format json|yaml paths.
type Formatter interface {
	Format(v any) error
}

// NewFormatter returns the formatter for a --format flag value. A nil
// writer means os.Stdout.
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case "json":
		return jsonFormatter{w: w}, nil
	case "yaml":
		return yamlFormatter{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want text, json, or yaml)", format)
	}
}

type jsonFormatter struct {
	w io.Writer
}

func (f jsonFormatter) Format(v any) error {
	encoder := json.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

type yamlFormatter struct {
	w io.Writer
}

func (f yamlFormatter) Format(v any) error {
	encoder := yaml.NewEncoder(f.w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(v)
}
