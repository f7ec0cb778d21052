package main

import (
	"os"

	"github.com/uttrekk-dev/uttrekk/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
