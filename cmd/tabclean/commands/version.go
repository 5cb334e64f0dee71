package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/internal/version"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if format, _ := cmd.Flags().GetString("format"); format != "" {
				f, err := output.ParseFormat(format)
				if err != nil {
					return err
				}
				return output.Encode(out, f, version.Get())
			}

			if full, _ := cmd.Flags().GetBool("full"); full {
				fmt.Fprintln(out, version.Full())
				return nil
			}
			fmt.Fprintf(out, "tabclean %s\n", version.String())
			return nil
		},
	}

	cmd.Flags().Bool("full", false, "show commit, build date and platform")
	cmd.Flags().String("format", "", "print as json, jsonl or yaml")

	return cmd
}
