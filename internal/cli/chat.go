package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reportchat/reportchat/internal/chat"
	"github.com/reportchat/reportchat/internal/index"
	"github.com/reportchat/reportchat/internal/session"
)

func newChatCmd() *cobra.Command {
	var (
		model   string
		history int
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat over the uploaded documents",
		Long: `Start an interactive session. Answers stream as they are generated and
every exchange is appended to the persisted transcript.

Type 'exit' or press Ctrl-D to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			if interactive {
				fmt.Printf("Chatting over %d indexed document(s) with %s. Type 'exit' to quit.\n\n",
					state.DocumentCount, effectiveModel)
				printRecent(state.Transcript, history)
			}

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

			for {
				if interactive {
					fmt.Print("> ")
				}
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				var shown strings.Builder
				answer, err := engine.AskStream(ctx, indexID, question, func(delta string) {
					shown.WriteString(delta)
					fmt.Print(delta)
				})
				if errors.Is(err, chat.ErrBusy) {
					fmt.Println("Still answering the previous question.")
					continue
				}
				if err != nil {
					return err
				}
				if answer != shown.String() {
					if shown.Len() > 0 {
						fmt.Println()
					}
					fmt.Print(answer)
				}
				fmt.Println()
				fmt.Println()
			}

			if interactive {
				fmt.Println("Bye.")
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model override (default from config)")
	cmd.Flags().IntVar(&history, "history", 10, "recent transcript entries to replay on start")

	return cmd
}

// printRecent replays the tail of the transcript, like a chat window that
// shows the latest messages above the input.
func printRecent(transcript []session.Turn, n int) {
	if n <= 0 || len(transcript) == 0 {
		return
	}
	start := 0
	if len(transcript) > n {
		start = len(transcript) - n
	}
	for _, turn := range transcript[start:] {
		fmt.Printf("%s: %s\n", turn.Speaker, turn.Message)
	}
	fmt.Println()
}
