package main

import (
	"fmt"
	"thumbfix/fixer"
	"thumbfix/scanner"
	"thumbfix/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newFixCmd rebuilds thumbnail paths from the folders on disk
func newFixCmd() *cobra.Command {
	var (
		output       string
		verifyImages bool
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Point every thumbnail at the folder its file lives in",
		Long: `Scans each category folder under the thumbnail directory, builds a
filename → folder lookup and rewrites matching catalog thumbnails to
<thumbnail dir>/<folder>/<lowercased filename>. Unmatched thumbnails are
reported and left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if output != "" {
				settings.FixedOutput = output
			}
			if cmd.Flags().Changed("verify-images") {
				settings.VerifyImages = verifyImages
			}

			store := storage.NewManager(settings, logger)
			catalog, err := store.LoadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Scanning thumbnail folders...")

			thumbs, err := scanner.NewScanner(settings, logger).Scan()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Found %d thumbnail files.\n", thumbs.Len())
			if n := len(thumbs.Conflicts()); n > 0 {
				fmt.Fprintf(out, "%d filenames exist in more than one folder, first folder kept.\n", n)
			}

			result := fixer.NewFixer(thumbs, settings.ThumbnailPrefix(), logger).Apply(catalog)

			if verbose {
				printChanges(out, result.Changes)
				for _, filename := range result.Unmatched {
					fmt.Fprintf(out, "  Not found: %s\n", filename)
				}
			}

			fmt.Fprintln(out, "======================================")
			fmt.Fprintf(out, "Updated thumbnail paths: %d\n", result.Updated)
			fmt.Fprintf(out, "Missing/Unmatched thumbnails: %d\n", result.Missing)
			fmt.Fprintln(out, "======================================")

			written, err := store.SaveCatalog(settings.FixedOutput, catalog)
			if err != nil {
				return err
			}

			logger.Info("Fix complete",
				zap.Int("games", len(catalog)),
				zap.Int("updated", result.Updated),
				zap.Int("missing", result.Missing),
				zap.Int("skipped", result.Skipped),
				zap.String("output", written))
			fmt.Fprintf(out, "\nNew file written: %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output catalog (default: games/games_fixed.json)")
	cmd.Flags().BoolVar(&verifyImages, "verify-images", false, "Decode each image and skip unreadable files")
	return cmd
}
