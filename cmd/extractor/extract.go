package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/visadesk/extractor/internal/cliout"
	"github.com/visadesk/extractor/internal/extract"
	"github.com/visadesk/extractor/internal/providers"
)

var (
	extractMaxPages int
	extractModel    string
	extractValidate bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract structured fields from a scanned PDF",
	Long: `Extract runs the full pipeline on one PDF: template inference from the
filename, page rasterization, vision-model invocation, and JSON parsing.
The populated mapping is printed to stdout.

When no path is given, it is read interactively from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := pdfPath(args)
		if err != nil {
			return err
		}

		pdfBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read PDF: %w", err)
		}

		cfg := cfgManager.Get()

		client := providers.NewOpenAIClient(cfg.ToOpenAIConfig())
		svc := extract.New(client, extract.Config{
			DefaultModel:      cfg.Defaults.Model,
			MaxPages:          cfg.Extraction.MaxPages,
			ValidateStructure: extractValidate || cfg.Extraction.ValidateStructure,
			Logger:            slog.Default(),
		})

		result, err := svc.Extract(cmd.Context(), extract.Request{
			PDF:      pdfBytes,
			Filename: path,
			MaxPages: extractMaxPages,
			Model:    extractModel,
		})
		if err != nil {
			return err
		}

		return cliout.Output(result)
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractMaxPages, "max-pages", 0, "max pages to rasterize (0 = config default)")
	extractCmd.Flags().StringVar(&extractModel, "model", "default", "model alias to use")
	extractCmd.Flags().BoolVar(&extractValidate, "validate", false, "fail when the result's structure deviates from the template")
}

// pdfPath returns the PDF path from args, or prompts for one on stdin.
func pdfPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	fmt.Fprint(os.Stderr, "Enter path to PDF: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read PDF path: %w", err)
	}

	path := strings.TrimSpace(line)
	if path == "" {
		return "", fmt.Errorf("no PDF path provided")
	}
	return path, nil
}
