// Package writer serializes a table as delimited text.
package writer

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Option configures the writer.
type Option func(*config)

type config struct {
	delimiter rune
	crlf      bool
}

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(c *config) {
		if r != 0 {
			c.delimiter = r
		}
	}
}

// WithCRLF terminates lines with \r\n instead of \n.
func WithCRLF(enabled bool) Option {
	return func(c *config) {
		c.crlf = enabled
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{delimiter: ','}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WriteFile creates or truncates path and writes t to it.
// Any failure is returned as *table.OutputWriteError.
func WriteFile(path string, t *table.Table, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return &table.OutputWriteError{Path: path, Err: err}
	}

	if err := Write(f, t, opts...); err != nil {
		_ = f.Close()
		return &table.OutputWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &table.OutputWriteError{Path: path, Err: err}
	}
	return nil
}

// Write writes the header and every row of t to w. Missing cells are
// written as empty fields.
func Write(w io.Writer, t *table.Table, opts ...Option) error {
	cfg := newConfig(opts)

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = cfg.delimiter
	cw.UseCRLF = cfg.crlf

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row.Strings()); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
