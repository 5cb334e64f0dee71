// Package tabclean runs the full cleaning pipeline: load a delimited file,
// normalize it, write it back as CSV and optionally render it as a centered
// text table.
//
//	res, err := tabclean.Run(ctx, &tabclean.Config{
//	    Input:  "raw.tsv",
//	    Output: "clean.csv",
//	    Pretty: "clean.txt",
//	})
//
// Stages run in order and the first failure stops the run. Files already
// written by earlier stages are left in place.
package tabclean

import (
	"context"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/loader"
	"github.com/jmylchreest/tabclean/pkg/normalizer"
	"github.com/jmylchreest/tabclean/pkg/render"
	"github.com/jmylchreest/tabclean/pkg/table"
	"github.com/jmylchreest/tabclean/pkg/writer"
)

// Result describes a completed run.
type Result struct {
	Table  *table.Table
	Info   *loader.Info
	Stats  *normalizer.Stats
	Output string
	Pretty string // empty when no rendering was requested
	Report string // empty when no report was requested
}

// Option adjusts a run beyond what Config expresses.
type Option func(*runner)

type runner struct {
	sniffer    loader.Sniffer
	normalizer *normalizer.Config
}

// WithSniffer replaces delimiter detection. It takes precedence over
// Config.Delimiter and Config.SniffLines.
func WithSniffer(s loader.Sniffer) Option {
	return func(r *runner) {
		r.sniffer = s
	}
}

// WithNormalizerConfig replaces the normalizer configuration derived from
// Config.ColumnCollision and Config.UnicodeNFC.
func WithNormalizerConfig(c *normalizer.Config) Option {
	return func(r *runner) {
		r.normalizer = c
	}
}

// Run validates cfg and executes the pipeline. ctx is checked between
// stages; a cancelled context stops the run before the next stage starts.
func Run(ctx context.Context, cfg *Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &runner{normalizer: cfg.normalizerConfig()}
	for _, opt := range opts {
		opt(r)
	}

	res := &Result{Output: cfg.Output}

	// Load
	loadOpts := cfg.loaderOptions()
	if r.sniffer != nil {
		loadOpts = append(loadOpts, loader.WithSniffer(r.sniffer))
	}
	done := logger.Stage(ctx, "load", "path", cfg.Input)
	t, info, err := loader.Load(cfg.Input, loadOpts...)
	if err != nil {
		done(err)
		return nil, err
	}
	done(nil, "delimiter", info.Delimiter, "encoding", info.Encoding, "records", info.Records)
	res.Table, res.Info = t, info

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Normalize
	n := normalizer.New(r.normalizer)
	done = logger.Stage(ctx, "normalize", "steps", n.Name())
	stats, err := n.Normalize(t)
	res.Stats = stats
	if err != nil {
		done(err)
		return res, err
	}
	done(nil, "rows_in", stats.RowsIn, "rows_out", stats.RowsOut, "columns", stats.Columns)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Write
	outDelim, _ := ParseDelimiter(cfg.OutputDelimiter)
	done = logger.Stage(ctx, "write", "path", cfg.Output)
	if err := writer.WriteFile(cfg.Output, t, writer.WithDelimiter(outDelim), writer.WithCRLF(cfg.CRLF)); err != nil {
		done(err)
		return res, err
	}
	done(nil, "rows", t.Len())

	// Render
	if cfg.Pretty != "" {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var renderOpts []render.Option
		if cfg.DisplayWidth {
			renderOpts = append(renderOpts, render.WithDisplayWidth())
		}
		done = logger.Stage(ctx, "render", "path", cfg.Pretty)
		if err := render.WriteFile(cfg.Pretty, t, renderOpts...); err != nil {
			done(err)
			return res, err
		}
		done(nil)
		res.Pretty = cfg.Pretty
	}

	// Report
	if cfg.Report != "" {
		format := cfg.reportFormat()
		done = logger.Stage(ctx, "report", "path", cfg.Report, "format", format)
		if err := output.WriteFile(cfg.Report, format, res.Summary()); err != nil {
			done(err)
			return res, err
		}
		done(nil)
		res.Report = cfg.Report
	}

	logger.InfoContext(ctx, "table cleaned",
		"input", cfg.Input,
		"output", cfg.Output,
		"rows", t.Len(),
		"dropped", stats.RowsDropped(),
		"duration", stats.TotalDuration,
	)
	return res, nil
}
