package main

import (
	"os"

	"github.com/datalab/drawbridge/cmd/drawbridge/cli"
	"github.com/datalab/drawbridge/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.Errorf("%v", err)
		os.Exit(1)
	}
}
