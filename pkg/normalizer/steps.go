package normalizer

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jmylchreest/tabclean/pkg/table"
)

var spaceRun = regexp.MustCompile(`[ \t]+`)

// CleanHeader trims s, replaces internal runs of spaces and tabs with sep,
// and lowercases the result.
func CleanHeader(s, sep string) string {
	return strings.ToLower(spaceRun.ReplaceAllString(strings.TrimSpace(s), sep))
}

// CleanCell trims s and collapses internal runs of spaces and tabs to one space.
func CleanCell(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// HeaderStep cleans column names.
type HeaderStep struct {
	Separator string
	Collision CollisionPolicy
}

func (s HeaderStep) Name() string { return "headers" }

func (s HeaderStep) Apply(t *table.Table, stats *Stats) error {
	cleaned := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cleaned[i] = CleanHeader(c, s.Separator)
	}

	seen := make(map[string]bool, len(cleaned))
	for i, name := range cleaned {
		if !seen[name] {
			seen[name] = true
			continue
		}
		if s.Collision != CollisionRename {
			return duplicateColumn(name, t.Columns, cleaned)
		}
		for n := 2; ; n++ {
			candidate := name + s.Separator + strconv.Itoa(n)
			if !seen[candidate] && !slices.Contains(cleaned[i+1:], candidate) {
				cleaned[i] = candidate
				seen[candidate] = true
				break
			}
		}
	}

	for i := range cleaned {
		if cleaned[i] != t.Columns[i] {
			stats.HeadersRenamed++
		}
	}
	t.Columns = cleaned
	return nil
}

func duplicateColumn(name string, original, cleaned []string) error {
	var sources []string
	for i, c := range cleaned {
		if c == name {
			sources = append(sources, original[i])
		}
	}
	return &table.DuplicateColumnError{Name: name, Sources: sources}
}

// CellStep cleans whitespace inside every present cell.
type CellStep struct {
	NFC bool
}

func (s CellStep) Name() string { return "cells" }

func (s CellStep) Apply(t *table.Table, stats *Stats) error {
	for _, row := range t.Rows {
		for i, c := range row {
			v, ok := c.Value()
			if !ok {
				continue
			}
			out := v
			if s.NFC {
				out = norm.NFC.String(out)
			}
			out = CleanCell(out)
			if out != v {
				row[i] = table.Present(out)
				stats.CellsChanged++
			}
		}
	}
	return nil
}

// BlankStep reclassifies empty and whitespace-only cells as missing.
type BlankStep struct{}

func (BlankStep) Name() string { return "blanks" }

func (BlankStep) Apply(t *table.Table, stats *Stats) error {
	for _, row := range t.Rows {
		for i, c := range row {
			if v, ok := c.Value(); ok && strings.TrimSpace(v) == "" {
				row[i] = table.Missing()
				stats.CellsMarkedMissing++
			}
		}
	}
	return nil
}

// BlankRowStep removes rows in which every cell is missing.
type BlankRowStep struct{}

func (BlankRowStep) Name() string { return "blank-rows" }

func (BlankRowStep) Apply(t *table.Table, stats *Stats) error {
	before := len(t.Rows)
	t.Rows = slices.DeleteFunc(t.Rows, table.Row.IsMissing)
	stats.BlankRowsDropped += before - len(t.Rows)
	return nil
}

// DuplicateStep removes rows identical to an earlier kept row.
// Missing cells only match missing cells.
type DuplicateStep struct{}

func (DuplicateStep) Name() string { return "duplicates" }

func (DuplicateStep) Apply(t *table.Table, stats *Stats) error {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		k := rowKey(row)
		if _, dup := seen[k]; dup {
			stats.DuplicateRowsDropped++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	clear(t.Rows[len(kept):])
	t.Rows = kept
	return nil
}

// rowKey encodes a row so that two rows share a key only if every cell
// matches, with missing cells distinct from empty strings.
func rowKey(row table.Row) string {
	var sb strings.Builder
	for _, c := range row {
		v, ok := c.Value()
		if !ok {
			sb.WriteString("m;")
			continue
		}
		fmt.Fprintf(&sb, "p%d:%s", len(v), v)
	}
	return sb.String()
}

// FillStep replaces missing cells with the empty string.
type FillStep struct{}

func (FillStep) Name() string { return "fill" }

func (FillStep) Apply(t *table.Table, stats *Stats) error {
	for _, row := range t.Rows {
		for i, c := range row {
			if c.IsMissing() {
				row[i] = table.Present("")
				stats.CellsFilled++
			}
		}
	}
	return nil
}
