package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/reportchat/reportchat/internal/index"
	"github.com/reportchat/reportchat/internal/ingest"
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload PDF documents into the vector store",
		Long: `Upload one or more PDF files into the bound vector store and wait until
they are indexed. Files whose bytes or filename are already in the store
are skipped.

Examples:
  reportchat upload annual_report_2025.pdf
  reportchat upload reports/*.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, state, err := loadSession()
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			files := make([]ingest.File, 0, len(args))
			for _, arg := range args {
				data, err := os.ReadFile(arg)
				if err != nil {
					return fmt.Errorf("read %s: %w", arg, err)
				}
				files = append(files, ingest.File{Name: filepath.Base(arg), Data: data})
			}

			ctx := cmd.Context()

			resolver := index.NewResolver(state, store, client, cfg.VectorStoreName, cfg.Upload.ListLimit)
			indexID, err := resolver.EnsureBound(ctx)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Uploading and indexing files"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			pipeline := ingest.New(state, store, client, cfg.Upload.ListLimit)
			res, ingestErr := pipeline.Ingest(ctx, indexID, files)
			_ = bar.Finish()

			printSkips(res.Skipped)
			if ingestErr != nil {
				return ingestErr
			}

			for _, name := range res.Added {
				color.Green("Uploaded: %s", name)
			}
			if len(res.Added) == 0 && len(res.Skipped) > 0 {
				fmt.Println("No new files to upload. All selected files were already present.")
			}

			return nil
		},
	}

	return cmd
}

func printSkips(skipped []ingest.Skip) {
	for _, s := range skipped {
		switch s.Reason {
		case ingest.SkipDuplicateContent:
			color.Yellow("Skipped (same content already uploaded): %s", s.Name)
		case ingest.SkipDuplicateName:
			color.Yellow("Skipped (already in vector store): %s", s.Name)
		}
	}
}
