package main

import (
	"fmt"
	"thumbfix/patcher"
	"thumbfix/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newPatchCmd applies the literal patch table
func newPatchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Replace thumbnails containing a known-bad fragment",
		Long: `Every thumbnail that contains one of the patch table fragments is replaced
by the corrected path of the first matching entry. The table defaults to the
built-in list and can be overridden with "patches" in the settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if output != "" {
				settings.PatchedOutput = output
			}

			store := storage.NewManager(settings, logger)
			catalog, err := store.LoadCatalog()
			if err != nil {
				return err
			}

			result := patcher.NewPatcher(settings.Patches, logger).Apply(catalog)

			written, err := store.SaveCatalog(settings.PatchedOutput, catalog)
			if err != nil {
				return err
			}

			logger.Info("Patch complete",
				zap.Int("games", len(catalog)),
				zap.Int("patched", result.Patched),
				zap.Int("conflicts", result.Conflicts),
				zap.String("output", written))

			out := cmd.OutOrStdout()
			if verbose {
				printChanges(out, result.Changes)
			}
			fmt.Fprintf(out, "Patch complete: fixed %d thumbnail paths.\n", result.Patched)
			fmt.Fprintf(out, "New file written: %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output catalog (default: games/games_patched.json)")
	return cmd
}
