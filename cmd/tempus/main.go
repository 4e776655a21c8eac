package main

import (
	"os"

	"github.com/msto63/tempus/cmd/tempus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
