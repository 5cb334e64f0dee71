package normalizer

import (
	"time"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Normalizer applies the configured steps to a table in a fixed order:
// headers, cells, blanks, blank-rows, duplicates, fill.
type Normalizer struct {
	config *Config
	chain  *Chain
}

// New creates a Normalizer. If config is nil, DefaultConfig() is used.
func New(config *Config) *Normalizer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Normalizer{
		config: config,
		chain:  NewChain(buildSteps(config)...),
	}
}

func buildSteps(cfg *Config) []Step {
	var steps []Step
	if cfg.CleanHeaders {
		sep := cfg.HeaderSeparator
		if sep == "" {
			sep = "_"
		}
		steps = append(steps, HeaderStep{Separator: sep, Collision: cfg.ColumnCollision})
	}
	if cfg.CleanCells {
		steps = append(steps, CellStep{NFC: cfg.UnicodeNFC})
	}
	if cfg.MarkBlanks {
		steps = append(steps, BlankStep{})
	}
	if cfg.DropBlankRows {
		steps = append(steps, BlankRowStep{})
	}
	if cfg.DropDuplicates {
		steps = append(steps, DuplicateStep{})
	}
	if cfg.FillMissing {
		steps = append(steps, FillStep{})
	}
	return steps
}

// Name returns the step chain, e.g. "chain(headers->cells->...)".
func (n *Normalizer) Name() string {
	return n.chain.Name()
}

// Normalize transforms t in place and reports what changed.
// Stats are returned even when a step fails.
func (n *Normalizer) Normalize(t *table.Table) (*Stats, error) {
	start := time.Now()
	stats := NewStats()
	stats.RowsIn = t.Len()

	err := n.chain.Apply(t, stats)

	stats.RowsOut = t.Len()
	stats.Columns = t.Width()
	stats.TotalDuration = time.Since(start)
	return stats, err
}

// Normalize applies the default configuration to t.
func Normalize(t *table.Table) (*Stats, error) {
	return New(nil).Normalize(t)
}
