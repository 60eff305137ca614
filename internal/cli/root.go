// Package cli defines the Cobra command tree for the reportchat CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reportchat/reportchat/internal/logging"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reportchat",
	Short: "Chat with annual reports and transcripts",
	Long: `Reportchat uploads PDF documents into a hosted vector store and answers
questions over them with retrieval-augmented completions.

Upload a few reports with 'reportchat upload', then ask away with
'reportchat ask' or an interactive 'reportchat chat' session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newUploadCmd(),
		newAskCmd(),
		newChatCmd(),
		newStatusCmd(),
		newExportCmd(),
		newClearCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reportchat %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
