package main

import (
	"fmt"
	"io"
	"os"
	"thumbfix/models"
	"thumbfix/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	rootDir    string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "thumbfix",
		Short: "Repair thumbnail paths in the games catalog",
		Long: `thumbfix maintains the thumbnail references of games/games.json.

  fix    rebuild paths from the thumbnail folders on disk
  patch  apply the table of known-bad filenames
  audit  report thumbnails that do not resolve to a file

The input catalog is never modified; fix and patch write a new file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}

			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
			config.DisableCaller = true
			config.DisableStacktrace = true
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l.With(zap.String("run_id", uuid.New().String()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Website root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newAuditCmd())

	return rootCmd
}

// loadSettings resolves the settings for a command: file, environment, then flags
func loadSettings() (*models.Settings, error) {
	settings, err := storage.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		settings.Root = rootDir
	}
	return settings, nil
}

// printChanges lists every rewritten thumbnail
func printChanges(out io.Writer, changes []models.Change) {
	for _, c := range changes {
		name := c.Game
		if name == "" {
			name = fmt.Sprintf("#%d", c.Index+1)
		}
		fmt.Fprintf(out, "  %s: %s -> %s\n", name, c.From, c.To)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
