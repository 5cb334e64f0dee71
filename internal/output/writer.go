// Package output serializes run reports and other structured values as
// JSON, JSONL or YAML.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats in help-text order.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML}
}

// ParseFormat converts a flag or config value into a Format.
// Matching is case-insensitive and "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use json, jsonl or yaml)", s)
	}
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single value.
	Write(data any) error

	// WriteAll outputs multiple values.
	WriteAll(data []any) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Encode writes v to w in the given format and flushes.
func Encode(w io.Writer, format Format, v any, opts ...WriterOption) error {
	ow, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	if err := ow.Write(v); err != nil {
		return err
	}
	return ow.Close()
}

// WriteFile creates or truncates path and writes v to it.
// I/O failures are returned as *table.OutputWriteError.
func WriteFile(path string, format Format, v any, opts ...WriterOption) error {
	if _, err := NewWriter(io.Discard, format); err != nil {
		return err
	}

	f, err := os.Create(path) //#nosec G304 -- report path comes from the user
	if err != nil {
		return &table.OutputWriteError{Path: path, Err: err}
	}
	if err := Encode(f, format, v, opts...); err != nil {
		_ = f.Close()
		return &table.OutputWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &table.OutputWriteError{Path: path, Err: err}
	}
	return nil
}
