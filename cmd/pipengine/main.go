package main

import (
	"os"

	"github.com/rustyeddy/pipengine/cmd/pipengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
