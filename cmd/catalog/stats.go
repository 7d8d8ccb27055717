package main

import (
	"log"
	"os"

	"github.com/h4ks-com/coffee-catalog/internal/console"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog statistics",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp()
		if err != nil {
			log.Fatal(err)
		}
		defer a.Close()

		stats, err := a.services.Statistics.GetStatistics()
		if err != nil {
			log.Fatal(err)
		}
		console.WriteStatistics(os.Stdout, stats)
	},
}
