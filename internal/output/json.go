package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers values and writes them as one JSON document on Flush.
// A single value is written as-is; several are written as an array.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
	done   bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		items:  make([]any, 0),
	}
}

// Write buffers a single value.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers multiple values.
func (w *JSONWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// Flush encodes the buffered values followed by a newline. Flushing again
// with nothing new buffered writes nothing.
func (w *JSONWriter) Flush() error {
	if w.done && len(w.items) == 0 {
		return nil
	}

	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	}

	enc := newEncoder(w.w)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	w.items = w.items[:0]
	w.done = true

	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one compact JSON value per line.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single value as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	if err := newEncoder(w.w).Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple values as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}

// newEncoder returns an encoder that leaves <, > and & unescaped.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
