package main

import (
	"fmt"
	"log"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	catalogIDs    []uint
	catalogFormat string
	catalogTitle  string
	catalogOpen   bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Render a printable catalog",
	Long: `Render active and inactive varieties as a PDF or text catalog in
EXPORT_DIR. Images are taken from IMAGES_DIR/<common name>.jpg when present.`,
	Example: `  catalog catalog
  catalog catalog --ids 3,1,2 --format text --title "Field guide"`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCatalog(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	catalogCmd.Flags().UintSliceVar(&catalogIDs, "ids", nil, "Varieties to include, in catalog order")
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "pdf", "Output format (pdf or text)")
	catalogCmd.Flags().StringVar(&catalogTitle, "title", "", "Catalog title")
	catalogCmd.Flags().BoolVar(&catalogOpen, "open", false, "Open the catalog once written")
}

func runCatalog() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var path string
	if len(catalogIDs) > 0 {
		path, err = a.services.Catalog.ExportByIDs(catalogIDs, catalogTitle, catalogFormat)
	} else {
		path, err = a.services.Catalog.ExportAll(catalogTitle, catalogFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to render catalog: %w", err)
	}

	fmt.Println(path)
	if catalogOpen {
		return browser.OpenFile(path)
	}
	return nil
}
