package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers values and writes them as one YAML document on Flush.
type YAMLWriter struct {
	w     *bufio.Writer
	items []any
	done  bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		items: make([]any, 0),
	}
}

// Write buffers a single value.
func (w *YAMLWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers multiple values.
func (w *YAMLWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// Flush encodes the buffered values with two-space indentation.
func (w *YAMLWriter) Flush() error {
	if w.done && len(w.items) == 0 {
		return nil
	}

	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	}

	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	w.items = w.items[:0]
	w.done = true

	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
