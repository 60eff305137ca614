package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the chat transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, state, err := loadSession()
			if err != nil {
				return err
			}

			state.ClearTranscript()
			store.Save(state)

			fmt.Println("Chat cleared.")
			return nil
		},
	}
}
