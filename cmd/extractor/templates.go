package main

import (
	"github.com/spf13/cobra"

	"github.com/visadesk/extractor/internal/cliout"
	"github.com/visadesk/extractor/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List registered filename keywords and their document types",
	Long: `Templates lists the keyword registry in match-priority order. When a
filename contains more than one keyword, the entry listed first wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cliout.Output(template.Entries())
	},
}
