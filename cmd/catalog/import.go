package main

import (
	"fmt"
	"log"
	"os"

	"github.com/h4ks-com/coffee-catalog/internal/services"
	"github.com/spf13/cobra"
)

var (
	importFile     string
	strictMode     bool
	importArchived bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import varieties from a JSON or YAML file",
	Long: `Import varieties from a JSON or YAML file.

The file is either a plain list of varieties:
[
  {"common_name": "Castillo", "plant_height": "low", "grain_size": "large",
   "altitude_min": 1000, "altitude_max": 2000, "resistances": {"rust": "resistant"}}
]

or a signed backup written by 'catalog export', whose signature must match
EXPORT_SIGNING_KEY. Files ending in .yaml or .yml are read as YAML.

By default, invalid or duplicate varieties are skipped and reported.
Use --strict to stop at the first failure instead.`,
	Example: `  catalog import -f varieties.json
  catalog import --file backup.yaml --archived
  catalog import -f varieties.json --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "File to import (required)")
	importCmd.Flags().BoolVar(&strictMode, "strict", false, "Fail on the first invalid variety")
	importCmd.Flags().BoolVar(&importArchived, "archived", false, "Also import varieties archived in the backup")
	importCmd.MarkFlagRequired("file")
}

func runImport() error {
	if importFile == "" {
		return fmt.Errorf("file path is required")
	}

	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.imports.ParseImport(importFile, data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", importFile, err)
	}

	log.Printf("Starting import of %d varieties from %s", len(records), importFile)

	result, err := a.imports.Import(records, services.ImportOptions{
		Strict:   strictMode,
		Archived: importArchived,
	})
	if err != nil {
		return err
	}

	log.Printf("Import complete:")
	log.Printf("  Imported: %d", result.Imported)
	log.Printf("  Skipped: %d", result.Skipped)
	for _, f := range result.Failures {
		log.Printf("    %s", f)
	}

	return nil
}
