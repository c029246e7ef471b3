package main

import (
	"os"

	"github.com/rin/pulley/internal/cli/commands"
	"github.com/rin/pulley/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
