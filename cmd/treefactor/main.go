package main

import (
	"os"

	"github.com/treefactor/treefactor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
