package main

import (
	"os"

	"github.com/hupe1980/apilevel/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
