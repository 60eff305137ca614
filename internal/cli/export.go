package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reportchat/reportchat/internal/export"
)

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the chat transcript",
		Long: `Render the persisted chat transcript to stdout — pipe it to a file.

Examples:
  reportchat export > chat_history.md
  reportchat export --format json > chat_history.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, ok := export.Get(format)
			if !ok {
				return fmt.Errorf("unknown format %q (valid: %s)",
					format, strings.Join(export.ValidFormats(), ", "))
			}

			_, _, state, err := loadSession()
			if err != nil {
				return err
			}

			out, err := exporter.Export(state.Transcript)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown, json, text")

	return cmd
}
