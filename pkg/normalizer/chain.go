package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Step is one in-place transformation of a table.
type Step interface {
	// Apply transforms t and records what it did in stats.
	Apply(t *table.Table, stats *Stats) error

	// Name returns the step name for logging and stats.
	Name() string
}

// Chain applies multiple steps in sequence.
type Chain struct {
	steps []Step
}

// NewChain creates a chain that applies steps in the order provided.
func NewChain(steps ...Step) *Chain {
	return &Chain{
		steps: steps,
	}
}

// Apply runs every step, stopping at the first error.
func (c *Chain) Apply(t *table.Table, stats *Stats) error {
	for _, step := range c.steps {
		start := time.Now()
		err := step.Apply(t, stats)
		stats.AddPhase(step.Name(), time.Since(start))
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// Name returns the names of all chained steps.
func (c *Chain) Name() string {
	names := make([]string, len(c.steps))
	for i, step := range c.steps {
		names[i] = step.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
