package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/visadesk/extractor/internal/cliout"
	"github.com/visadesk/extractor/internal/config"
	"github.com/visadesk/extractor/version"
)

var (
	cfgFile      string
	outputFormat string

	cfgManager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Structured field extraction from scanned PDF documents",
	Long: `Extractor turns scanned PDF documents (immigration forms, passports,
visas, transcripts, employment letters, tax filings) into machine-readable
JSON by rendering pages to images and asking a vision model to populate a
document-type-specific template.

The document type is inferred from the filename: the first registered
keyword found in the lowercased basename selects the template.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.extractor/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cliout.SetFormat(outputFormat)

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cm.OnChange(func(c *config.Config) {
			slog.Debug("configuration reloaded",
				"model", c.Defaults.Model, "max_pages", c.Extraction.MaxPages)
		})
		cm.WatchConfig()
		cfgManager = cm
		return nil
	}

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
