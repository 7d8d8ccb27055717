package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	databaseURL string
	logSQL      bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Colombian coffee variety catalog",
	Long: `Catalog keeps a database of Colombian coffee varieties with their
agronomic traits, disease resistance and images.

Run 'catalog' or 'catalog console' for the interactive menu. The other
commands cover imports, signed backups, printable catalogs and statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		runConsole()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "Database URL, overrides DATABASE_URL")
	rootCmd.PersistentFlags().BoolVar(&logSQL, "log-sql", false, "Log every SQL statement to stderr")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(statsCmd)
}
