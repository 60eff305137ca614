package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/reportchat/reportchat/internal/index"
	"github.com/reportchat/reportchat/internal/ingest"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Watch a directory and auto-upload new PDFs",
		Long: `Start a long-running watcher on a directory (default: current directory)
that uploads any PDF file appearing in it through the usual dedup pipeline.

Events are debounced so a file still being written is picked up once,
after it settles. Press Ctrl-C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			cfg, store, state, err := loadSession()
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			resolver := index.NewResolver(state, store, client, cfg.VectorStoreName, cfg.Upload.ListLimit)
			pipeline := ingest.New(state, store, client, cfg.Upload.ListLimit)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			debounce := time.Duration(debounceMs) * time.Millisecond

			fmt.Printf("Watching %s for new PDFs (debounce %s). Press Ctrl-C to stop.\n", dir, debounce)

			// Handle Ctrl-C gracefully.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			pending := make(map[string]bool)
			timer := time.NewTimer(debounce)
			timer.Stop() // Don't fire immediately.

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
						continue
					}
					if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
						continue
					}
					pending[event.Name] = true
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					if len(pending) == 0 {
						continue
					}
					batch := pending
					pending = make(map[string]bool)

					files := make([]ingest.File, 0, len(batch))
					for path := range batch {
						data, err := os.ReadFile(path)
						if err != nil {
							fmt.Fprintf(os.Stderr, "  warning: read %s: %v\n", path, err)
							continue
						}
						files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
					}
					if len(files) == 0 {
						continue
					}

					indexID, err := resolver.EnsureBound(ctx)
					if err != nil {
						return err
					}

					res, err := pipeline.Ingest(ctx, indexID, files)
					printSkips(res.Skipped)
					if err != nil {
						fmt.Fprintf(os.Stderr, "  warning: %v\n", err)
						continue
					}

					ts := time.Now().Format("15:04:05")
					for _, name := range res.Added {
						fmt.Printf("[%s] Uploaded: %s\n", ts, name)
					}

				case <-ctx.Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "debounce interval in milliseconds")

	return cmd
}
