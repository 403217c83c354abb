// Package output renders command results as text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value. Empty selects text.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (valid: text, json, yaml)", raw)
	}
}

// Result is anything a command can print in every format.
type Result interface {
	Text(w io.Writer) error
	// Data is the value encoded for the structured formats.
	Data() interface{}
}

// Formatter writes results in the selected format.
type Formatter struct {
	format Format
	w      io.Writer
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithFormat selects the output format.
func WithFormat(f Format) Option {
	return func(fm *Formatter) {
		fm.format = f
	}
}

// WithWriter redirects output; the default is stdout.
func WithWriter(w io.Writer) Option {
	return func(fm *Formatter) {
		fm.w = w
	}
}

// New creates a formatter, defaulting to text on stdout.
func New(opts ...Option) *Formatter {
	f := &Formatter{format: FormatText, w: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Output renders r in the selected format.
func (f *Formatter) Output(r Result) error {
	switch f.format {
	case FormatJSON:
		return f.JSON(r.Data())
	case FormatYAML:
		return f.YAML(r.Data())
	default:
		return r.Text(f.w)
	}
}

// JSON writes v as indented JSON.
func (f *Formatter) JSON(v interface{}) error {
	return WriteJSON(f.w, v, true)
}

// YAML writes v as YAML with two-space indentation.
func (f *Formatter) YAML(v interface{}) error {
	return WriteYAML(f.w, v)
}

// WriteJSON encodes v to w, optionally indented.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteYAML encodes v to w.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
