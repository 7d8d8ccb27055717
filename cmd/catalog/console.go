package main

import (
	"log"
	"os"

	"github.com/h4ks-com/coffee-catalog/internal/console"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive menu",
	Run: func(cmd *cobra.Command, args []string) {
		runConsole()
	},
}

func runConsole() {
	a, err := openApp()
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	session := console.NewSession(os.Stdin, os.Stdout, a.services, console.Options{
		PageSize:    a.cfg.PageSize,
		OpenExports: a.cfg.Export.Open,
		Opener:      browser.OpenFile,
	})
	if err := session.Run(); err != nil {
		log.Fatal(err)
	}
}
