package main

import (
	"os"

	"recipe-finder/cmd/recipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
