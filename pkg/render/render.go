// Package render formats a table as a centered, fixed-width text block:
// a header line, a "-+-" rule, then one line per row with cells joined by
// " | ".
//
// Columns are as wide as their longest cell or header. Every value is
// centered, with the odd leftover space placed on the right. Lines are
// joined by "\n" and the block has no trailing newline.
package render

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/tabclean/pkg/table"
)

const (
	cellSep  = " | "
	ruleSep  = "-+-"
	ruleChar = "-"
)

// Measure returns the rendered width of s.
type Measure func(s string) int

// Runes measures s in code points.
func Runes(s string) int {
	return utf8.RuneCountInString(s)
}

// DisplayWidth measures s in terminal cells, counting East Asian wide
// characters as two.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Option configures rendering.
type Option func(*config)

type config struct {
	measure Measure
}

// WithDisplayWidth measures cells in terminal columns instead of runes.
func WithDisplayWidth() Option {
	return func(c *config) {
		c.measure = DisplayWidth
	}
}

// WithMeasure sets a custom width function.
func WithMeasure(m Measure) Option {
	return func(c *config) {
		if m != nil {
			c.measure = m
		}
	}
}

// Widths returns the width of each column: the larger of the header and
// the widest cell.
func Widths(t *table.Table, measure Measure) []int {
	if measure == nil {
		measure = Runes
	}
	widths := make([]int, t.Width())
	for i, col := range t.Columns {
		widths[i] = measure(col)
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if w := measure(c.String()); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// Center pads s with spaces to width. Values already at least width wide
// are returned unchanged.
func Center(s string, width int, measure Measure) string {
	extra := width - measure(s)
	if extra <= 0 {
		return s
	}
	left := extra / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", extra-left)
}

// Render returns the table as text.
func Render(t *table.Table, opts ...Option) string {
	cfg := &config{measure: Runes}
	for _, opt := range opts {
		opt(cfg)
	}

	widths := Widths(t, cfg.measure)
	lines := make([]string, 0, t.Len()+2)

	lines = append(lines, line(t.Columns, widths, cfg.measure))

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat(ruleChar, w)
	}
	lines = append(lines, strings.Join(rule, ruleSep))

	for _, row := range t.Rows {
		lines = append(lines, line(row.Strings(), widths, cfg.measure))
	}

	return strings.Join(lines, "\n")
}

func line(values []string, widths []int, measure Measure) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Center(v, widths[i], measure)
	}
	return strings.Join(parts, cellSep)
}

// WriteFile renders t to path, creating or truncating it.
// Failures are returned as *table.OutputWriteError.
func WriteFile(path string, t *table.Table, opts ...Option) error {
	if err := os.WriteFile(path, []byte(Render(t, opts...)), 0o644); err != nil { //#nosec G306 -- rendered output is meant to be readable
		return &table.OutputWriteError{Path: path, Err: err}
	}
	return nil
}
