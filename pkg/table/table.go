// Package table provides the in-memory tabular model shared by every stage of
// the tabclean pipeline.
//
// A Table is an ordered list of named columns and an ordered list of rows.
// Rows are positionally aligned with the columns, so a Table is rectangular
// by construction: Append pads short rows with missing cells and rejects rows
// that are wider than the header.
package table

import (
	"fmt"
	"slices"
)

// Cell is a single table value. It is either present (holding a string,
// possibly empty) or missing. The zero Cell is missing.
type Cell struct {
	value   string
	present bool
}

// Present returns a cell holding s.
func Present(s string) Cell {
	return Cell{value: s, present: true}
}

// Missing returns the missing-value marker.
func Missing() Cell {
	return Cell{}
}

// IsMissing reports whether the cell is the missing-value marker.
func (c Cell) IsMissing() bool {
	return !c.present
}

// Value returns the cell's string and whether it is present.
func (c Cell) Value() (string, bool) {
	return c.value, c.present
}

// String returns the display form of the cell. Missing cells render as "".
func (c Cell) String() string {
	return c.value
}

// Row is one table row, aligned with Table.Columns.
type Row []Cell

// IsMissing reports whether every cell in the row is missing.
// An empty row is considered missing.
func (r Row) IsMissing() bool {
	for _, c := range r {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}

// Strings returns the display form of every cell.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Table is a rectangular set of rows with named columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column names.
func New(columns []string) *Table {
	return &Table{
		Columns: slices.Clone(columns),
		Rows:    make([]Row, 0),
	}
}

// FromStrings builds a table from a header and string records.
// Every string becomes a present cell.
func FromStrings(columns []string, records [][]string) (*Table, error) {
	t := New(columns)
	for i, rec := range records {
		row := make(Row, len(rec))
		for j, v := range rec {
			row[j] = Present(v)
		}
		if err := t.Append(row); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return t, nil
}

// Append adds a row to the table. Rows shorter than the header are padded
// with missing cells; rows longer than the header are rejected.
func (t *Table) Append(row Row) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("expected %d fields, saw %d", len(t.Columns), len(row))
	}
	if len(row) < len(t.Columns) {
		padded := make(Row, len(t.Columns))
		copy(padded, row)
		row = padded
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	return slices.Index(t.Columns, name)
}

// Records returns the display strings of every row.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Strings()
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		c.Rows[i] = slices.Clone(r)
	}
	return c
}

// Equal reports whether two tables have the same columns and cells,
// distinguishing missing cells from empty strings.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !slices.Equal(t.Columns, other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i := range t.Rows {
		if !slices.Equal(t.Rows[i], other.Rows[i]) {
			return false
		}
	}
	return true
}
