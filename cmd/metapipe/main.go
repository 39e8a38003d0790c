package main

import (
	"os"

	"github.com/evrgames/metapipe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
