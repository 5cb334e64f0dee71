// Package loader reads delimited text files into tables.
//
// The delimiter is not assumed: it is chosen by a Sniffer over the first
// lines of the decoded input. Every cell is loaded as a raw string; no type
// coercion happens here.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// sniffBytes bounds how much of the input is handed to the Sniffer.
const sniffBytes = 64 * 1024

// Info describes what the loader found.
type Info struct {
	Path      string `json:"path" yaml:"path"`
	Delimiter string `json:"delimiter" yaml:"delimiter"`
	Encoding  string `json:"encoding" yaml:"encoding"`
	Bytes     int    `json:"bytes" yaml:"bytes"`
	Records   int    `json:"records" yaml:"records"`
	// LazyQuotes is set when the input had bare quotes inside unquoted
	// fields and was read leniently.
	LazyQuotes bool `json:"lazy_quotes,omitempty" yaml:"lazy_quotes,omitempty"`
}

// Option configures the loader.
type Option func(*config)

type config struct {
	sniffer  Sniffer
	encoding string
	maxBytes int64
}

// WithSniffer sets the delimiter detection strategy.
func WithSniffer(s Sniffer) Option {
	return func(c *config) {
		c.sniffer = s
	}
}

// WithDelimiter fixes the delimiter, skipping detection.
func WithDelimiter(r rune) Option {
	return func(c *config) {
		c.sniffer = Fixed(r)
	}
}

// WithEncoding forces the source character set (e.g. "windows-1252").
// Use EncodingAuto to detect it.
func WithEncoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}

// WithMaxBytes rejects inputs larger than n bytes. Zero disables the limit.
func WithMaxBytes(n int64) Option {
	return func(c *config) {
		c.maxBytes = n
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		sniffer:  FrequencySniffer{},
		encoding: EncodingAuto,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the delimited file at path.
//
// A missing or unreadable path yields an error wrapping table.ErrInputNotFound.
// Content that cannot be split into a rectangular table yields *table.ParseError.
func Load(path string, opts ...Option) (*table.Table, *Info, error) {
	cfg := newConfig(opts)

	if cfg.maxBytes > 0 {
		if fi, err := os.Stat(path); err == nil && fi.Size() > cfg.maxBytes {
			return nil, nil, fmt.Errorf("%w: %s is %s (limit %s)", table.ErrInputTooLarge,
				path, humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(cfg.maxBytes)))
		}
	}

	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads user-specified input file
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", table.ErrInputNotFound, err)
	}

	return parse(path, data, cfg)
}

// Read loads a table from r. Errors carry no path.
func Read(r io.Reader, opts ...Option) (*table.Table, *Info, error) {
	cfg := newConfig(opts)

	src := r
	if cfg.maxBytes > 0 {
		src = io.LimitReader(r, cfg.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	if cfg.maxBytes > 0 && int64(len(data)) > cfg.maxBytes {
		return nil, nil, fmt.Errorf("%w: limit %s", table.ErrInputTooLarge, humanize.Bytes(uint64(cfg.maxBytes)))
	}

	return parse("", data, cfg)
}

func parse(path string, data []byte, cfg *config) (*table.Table, *Info, error) {
	text, encoding, err := decode(data, cfg.encoding)
	if err != nil {
		return nil, nil, &table.ParseError{Path: path, Err: err}
	}

	sample := text
	if len(sample) > sniffBytes {
		sample = sample[:sniffBytes]
	}
	delim := cfg.sniffer.Sniff(sample)

	t, err := readTable(path, text, delim, false)
	lazy := false
	if errors.Is(err, csv.ErrBareQuote) {
		// A stray quote inside an unquoted field is data, not broken quoting.
		t, err = readTable(path, text, delim, true)
		lazy = true
	}
	if err != nil {
		return nil, nil, err
	}

	info := &Info{
		Path:       path,
		Delimiter:  string(delim),
		Encoding:   encoding,
		Bytes:      len(data),
		Records:    t.Len(),
		LazyQuotes: lazy,
	}
	return t, info, nil
}

// readTable parses text into a table. Short rows are padded; long rows and
// unterminated quotes are ParseErrors.
func readTable(path string, text []byte, delim rune, lazyQuotes bool) (*table.Table, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = lazyQuotes

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &table.ParseError{Path: path, Err: errors.New("no columns to parse")}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	t := table.New(header)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, csvError(path, err)
		}

		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = table.Present(v)
		}
		if err := t.Append(row); err != nil {
			line, _ := r.FieldPos(0)
			return nil, &table.ParseError{Path: path, Line: line, Err: err}
		}
	}
}

// csvError converts an encoding/csv failure into a ParseError that keeps
// the line number and the underlying cause.
func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &table.ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &table.ParseError{Path: path, Err: err}
}
