package main

import (
	"os"

	"mspro-labs/fdc-seed/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
