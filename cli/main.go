package main

import (
	"os"

	"github.com/sentrakyc/veriwatch/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
