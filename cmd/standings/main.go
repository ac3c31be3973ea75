package main

import (
	"os"

	"github.com/zackcline/fantasy-baseball-tracker/cmd/standings/commands"
)

// main is the entry point for the standings CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
