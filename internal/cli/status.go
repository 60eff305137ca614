package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the bound vector store and indexed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, state, err := loadSession()
			if err != nil {
				return err
			}

			fmt.Println()
			if state.IndexID != "" {
				fmt.Printf("Vector store: %s (%s)\n", cfg.VectorStoreName, state.IndexID)
			} else {
				fmt.Printf("Vector store: %s (not bound yet)\n", cfg.VectorStoreName)
			}
			fmt.Printf("Indexed:      %d file(s)\n", state.DocumentCount)
			fmt.Printf("Transcript:   %d message(s)\n", len(state.Transcript))
			fmt.Printf("Model:        %s (default)\n", cfg.Model)

			if len(state.KnownFilenames) > 0 {
				names := make([]string, 0, len(state.KnownFilenames))
				for name := range state.KnownFilenames {
					names = append(names, name)
				}
				sort.Strings(names)

				fmt.Println("\nDocuments:")
				for _, name := range names {
					fmt.Printf("  - %s\n", name)
				}
			} else {
				fmt.Println("\nNo documents yet.")
			}
			fmt.Println()

			return nil
		},
	}
}
