package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/pkg/loader"
	"github.com/jmylchreest/tabclean/pkg/tabclean"
)

func newCleanCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <input> <output>",
		Short: "Normalize a delimited file and write it as CSV",
		Long: `Clean reads <input>, normalizes it and writes comma-separated <output>.

Headers are trimmed, lowercased and have inner whitespace replaced by "_".
Cells are trimmed and inner runs of spaces and tabs collapse to one space.
Rows that are entirely blank are dropped, then exact duplicate rows are
dropped keeping the first. Remaining blanks are written as empty fields.

Settings can also come from $HOME/.tabclean.yaml, ./.tabclean.yaml or
TABCLEAN_* environment variables (e.g. TABCLEAN_ON_DUPLICATE_COLUMN=rename).

Examples:
  tabclean clean data.tsv data.csv
  tabclean clean data.csv clean.csv --pretty clean.txt --display-width
  tabclean clean big.csv clean.csv --max-input-size 200MB --report run.yaml --report-format yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, v, args)
		},
	}

	flags := cmd.Flags()

	// Outputs
	flags.String("pretty", "", "also write a centered text table to this path")
	flags.String("report", "", "write a run report to this path")
	flags.String("report-format", "json", "run report format: json, jsonl, yaml")
	flags.Bool("summary", false, "print cleaning statistics after the run")

	// Input
	flags.StringP("delimiter", "d", "", "input delimiter: a character or comma, tab, semicolon, pipe, space (default: detect)")
	flags.String("encoding", loader.EncodingAuto, "input character set, e.g. utf-8, windows-1252, shift_jis")
	flags.String("max-input-size", "0", "refuse inputs larger than this (e.g. 50MB, 0=unlimited)")
	flags.Int("sniff-lines", loader.DefaultSampleLines, "lines inspected when detecting the delimiter")

	// Normalizing
	flags.String("on-duplicate-column", "error", "when cleaned headers collide: error, rename")
	flags.Bool("nfc", false, "apply Unicode NFC normalization to cells")

	// Writing
	flags.String("output-delimiter", ",", "output delimiter")
	flags.Bool("crlf", false, "end output lines with CRLF")
	flags.Bool("display-width", false, "size table columns by terminal width (wide CJK characters count as two)")

	for key, flag := range map[string]string{
		"report_format":       "report-format",
		"delimiter":           "delimiter",
		"encoding":            "encoding",
		"max_input_size":      "max-input-size",
		"sniff_lines":         "sniff-lines",
		"on_duplicate_column": "on-duplicate-column",
		"nfc":                 "nfc",
		"output_delimiter":    "output-delimiter",
		"crlf":                "crlf",
		"display_width":       "display-width",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func runClean(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx, cancel := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := buildConfig(cmd, v, args)
	if err != nil {
		return err
	}
	logger.Debug("clean command starting",
		"input", cfg.Input,
		"output", cfg.Output,
		"delimiter", cfg.Delimiter,
		"encoding", cfg.Encoding,
	)

	res, err := tabclean.Run(ctx, cfg)
	if err != nil {
		return err
	}

	quiet := v.GetBool("quiet")
	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "Cleaned CSV saved to: %s\n", res.Output)
		if res.Pretty != "" {
			fmt.Fprintf(out, "Centered table saved to: %s\n", res.Pretty)
		}
		if res.Report != "" {
			fmt.Fprintf(out, "Report saved to: %s\n", res.Report)
		}
	}
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		fmt.Fprint(out, res.Stats.String())
	}
	return nil
}

// buildConfig resolves flags, environment and config file into a run config.
func buildConfig(cmd *cobra.Command, v *viper.Viper, args []string) (*tabclean.Config, error) {
	maxInput, err := parseSize(v.GetString("max_input_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max-input-size %q: %w", v.GetString("max_input_size"), err)
	}

	pretty, _ := cmd.Flags().GetString("pretty")
	report, _ := cmd.Flags().GetString("report")

	return &tabclean.Config{
		Input:           args[0],
		Output:          args[1],
		Pretty:          pretty,
		Report:          report,
		Delimiter:       v.GetString("delimiter"),
		Encoding:        v.GetString("encoding"),
		MaxInputBytes:   maxInput,
		SniffLines:      v.GetInt("sniff_lines"),
		ColumnCollision: v.GetString("on_duplicate_column"),
		UnicodeNFC:      v.GetBool("nfc"),
		OutputDelimiter: v.GetString("output_delimiter"),
		CRLF:            v.GetBool("crlf"),
		DisplayWidth:    v.GetBool("display_width"),
		ReportFormat:    v.GetString("report_format"),
	}, nil
}

// parseSize parses a humanized byte size. Empty and "0" mean unlimited.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
