package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reportchat/reportchat/internal/chat"
	"github.com/reportchat/reportchat/internal/index"
)

func newAskCmd() *cobra.Command {
	var (
		model  string
		stream bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a one-shot question over the uploaded documents",
		Long: `Send a single question answered by retrieval over the vector store.

Examples:
  reportchat ask "What was revenue growth in FY2025?"
  reportchat ask --stream "Summarize the risk factors"
  reportchat ask --model gpt-4.1 "Compare the two transcripts"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			cfg, store, state, err := loadSession()
			if err != nil {
				return err
			}
			if state.DocumentCount == 0 {
				return fmt.Errorf("no documents indexed yet. Run `reportchat upload` first")
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			resolver := index.NewResolver(state, store, client, cfg.VectorStoreName, cfg.Upload.ListLimit)
			indexID, err := resolver.EnsureBound(ctx)
			if err != nil {
				return err
			}

			effectiveModel := cfg.Model
			if model != "" {
				effectiveModel = model
			}
			engine := chat.NewEngine(state, store, client, effectiveModel)

			if stream || (cfg.Output.Stream && !cmd.Flags().Changed("stream")) {
				var shown strings.Builder
				answer, err := engine.AskStream(ctx, indexID, question, func(delta string) {
					shown.WriteString(delta)
					fmt.Print(delta)
				})
				if err != nil {
					return err
				}
				// A failed or empty stream commits a message that was never
				// part of the streamed fragments; show it.
				if answer != shown.String() {
					if shown.Len() > 0 {
						fmt.Println()
					}
					fmt.Println(answer)
					return nil
				}
				fmt.Println()
				return nil
			}

			answer, err := engine.Ask(ctx, indexID, question)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model override (default from config)")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer as it is generated")

	return cmd
}
