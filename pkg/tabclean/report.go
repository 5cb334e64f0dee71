package tabclean

import (
	"time"

	"github.com/jmylchreest/tabclean/internal/version"
	"github.com/jmylchreest/tabclean/pkg/loader"
	"github.com/jmylchreest/tabclean/pkg/normalizer"
)

// Summary is the run report written by --report.
type Summary struct {
	Tool      string            `json:"tool" yaml:"tool"`
	Version   string            `json:"version" yaml:"version"`
	Generated time.Time         `json:"generated" yaml:"generated"`
	Input     *loader.Info      `json:"input" yaml:"input"`
	Output    string            `json:"output" yaml:"output"`
	Pretty    string            `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	Columns   []string          `json:"columns" yaml:"columns"`
	Stats     *normalizer.Stats `json:"stats" yaml:"stats"`
}

// Summary builds the report for r. Fields for stages that did not run are
// left empty.
func (r *Result) Summary() Summary {
	s := Summary{
		Tool:      "tabclean",
		Version:   version.String(),
		Generated: time.Now().UTC(),
		Input:     r.Info,
		Output:    r.Output,
		Pretty:    r.Pretty,
		Stats:     r.Stats,
	}
	if r.Table != nil {
		s.Columns = r.Table.Columns
	}
	return s
}
