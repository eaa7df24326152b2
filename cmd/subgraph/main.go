package main

import (
	"os"

	"github.com/psidex/subgraph/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.Errorf(os.Stderr, "%s", err)
		os.Exit(1)
	}
}
