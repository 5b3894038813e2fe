package main

import (
	"os"

	"github.com/celer/vkcompute/cmd/vkcompute/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
