package main

import (
	"os"

	"github.com/rustyeddy/tsis/cmd/tsis/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
