package main

import (
	"fmt"
	"thumbfix/audit"
	"thumbfix/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newAuditCmd reports thumbnails that do not resolve to a file
func newAuditCmd() *cobra.Command {
	var (
		strict       bool
		verifyImages bool
		pages        []string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report broken thumbnail references",
		Long: `Checks every catalog thumbnail, and every <img> under the thumbnail directory
in the configured HTML pages, against the files on disk. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verify-images") {
				settings.VerifyImages = verifyImages
			}
			if len(pages) > 0 {
				settings.Pages = pages
			}

			catalog, err := storage.NewManager(settings, logger).LoadCatalog()
			if err != nil {
				return err
			}

			report, err := audit.NewAuditor(settings, logger).Run(catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, finding := range report.Findings {
				fmt.Fprintf(out, "[%s] %s: %s", finding.Reason, finding.Source, finding.Ref)
				if finding.Detail != "" {
					fmt.Fprintf(out, " (%s)", finding.Detail)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Checked %d references across the catalog and %d pages, %d broken.\n",
				report.Checked, report.Pages, len(report.Findings))

			logger.Info("Audit complete",
				zap.Int("checked", report.Checked),
				zap.Int("pages", report.Pages),
				zap.Int("broken", len(report.Findings)))

			if strict && len(report.Findings) > 0 {
				return fmt.Errorf("%d broken thumbnail references", len(report.Findings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when broken references are found")
	cmd.Flags().BoolVar(&verifyImages, "verify-images", false, "Also decode every referenced image")
	cmd.Flags().StringSliceVar(&pages, "pages", nil, "HTML page globs, relative to the root")
	return cmd
}
