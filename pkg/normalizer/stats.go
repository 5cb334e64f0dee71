package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures what the normalizer did to a table.
type Stats struct {
	// Shape
	RowsIn  int `json:"rows_in" yaml:"rows_in"`
	RowsOut int `json:"rows_out" yaml:"rows_out"`
	Columns int `json:"columns" yaml:"columns"`

	// Per-step counters
	HeadersRenamed       int `json:"headers_renamed" yaml:"headers_renamed"`
	CellsChanged         int `json:"cells_changed" yaml:"cells_changed"`
	CellsMarkedMissing   int `json:"cells_marked_missing" yaml:"cells_marked_missing"`
	BlankRowsDropped     int `json:"blank_rows_dropped" yaml:"blank_rows_dropped"`
	DuplicateRowsDropped int `json:"duplicate_rows_dropped" yaml:"duplicate_rows_dropped"`
	CellsFilled          int `json:"cells_filled" yaml:"cells_filled"`

	// Timing
	Phases        []Phase       `json:"phases" yaml:"phases"`
	TotalDuration time.Duration `json:"total_duration_ns" yaml:"total_duration"`
}

// Phase records the duration of one step.
type Phase struct {
	Name     string        `json:"name" yaml:"name"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		Phases: make([]Phase, 0),
	}
}

// AddPhase records that a step ran for d.
func (s *Stats) AddPhase(name string, d time.Duration) {
	s.Phases = append(s.Phases, Phase{Name: name, Duration: d})
}

// RowsDropped returns the total number of rows removed.
func (s *Stats) RowsDropped() int {
	return s.BlankRowsDropped + s.DuplicateRowsDropped
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Rows: %s -> %s (%s blank, %s duplicate removed)\n",
		humanize.Comma(int64(s.RowsIn)), humanize.Comma(int64(s.RowsOut)),
		humanize.Comma(int64(s.BlankRowsDropped)), humanize.Comma(int64(s.DuplicateRowsDropped)))
	fmt.Fprintf(&sb, "Columns: %d (%d renamed)\n", s.Columns, s.HeadersRenamed)
	fmt.Fprintf(&sb, "Cells: %s cleaned, %s blank, %s filled\n",
		humanize.Comma(int64(s.CellsChanged)), humanize.Comma(int64(s.CellsMarkedMissing)),
		humanize.Comma(int64(s.CellsFilled)))

	if len(s.Phases) > 0 {
		parts := make([]string, len(s.Phases))
		for i, p := range s.Phases {
			parts[i] = fmt.Sprintf("%s=%v", p.Name, p.Duration.Round(time.Microsecond))
		}
		fmt.Fprintf(&sb, "Timing: %s, total=%v\n", strings.Join(parts, ", "),
			s.TotalDuration.Round(time.Microsecond))
	}

	return sb.String()
}
