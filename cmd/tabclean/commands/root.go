// Package commands implements the CLI commands for tabclean.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tabclean/internal/logger"
)

// NewRootCommand builds the command tree. Each tree owns its own viper
// instance so that tests can build several without sharing state.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tabclean",
		Short: "Clean up messy CSV and TSV files",
		Long: `tabclean normalizes delimited text files.

It detects the delimiter, trims and collapses whitespace in headers and
cells, drops blank and duplicate rows, fills missing values, and writes a
clean comma-separated file. It can also render the result as a centered
text table.

Examples:
  # Clean a file, delimiter detected automatically
  tabclean clean raw.tsv clean.csv

  # Also write a readable table
  tabclean clean raw.csv clean.csv --pretty clean.txt

  # Force the input delimiter and keep colliding headers
  tabclean clean export.txt clean.csv --delimiter pipe --on-duplicate-column rename`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			logger.Init(logger.Options{
				Debug:  v.GetBool("debug"),
				Quiet:  v.GetBool("quiet"),
				JSON:   v.GetBool("log_json"),
				Output: cmd.ErrOrStderr(),
			})
			if f := v.ConfigFileUsed(); f != "" {
				logger.Debug("loaded config file", "path", f)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.tabclean.yaml or ./.tabclean.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only print errors")
	flags.Bool("log-json", false, "write logs as JSON")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = v.BindPFlag("log_json", flags.Lookup("log-json"))

	cmd.AddCommand(newCleanCommand(v))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// initConfig layers the config file and TABCLEAN_* environment variables
// under the bound flags. A missing default config file is not an error;
// a missing or broken --config file is.
func initConfig(v *viper.Viper) error {
	cfgFile := v.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".tabclean")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TABCLEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Execute runs the root command and reports any failure on stderr.
func Execute() error {
	return execute(NewRootCommand())
}

func execute(root *cobra.Command) error {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
