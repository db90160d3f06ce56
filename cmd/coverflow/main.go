package main

import (
	"os"

	"github.com/teranos/coverflow/cmd/coverflow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
