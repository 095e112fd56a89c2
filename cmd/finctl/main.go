package main

import (
	"os"

	"finframe/cmd/finctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
