// Vibrant - named colour palette extraction
//
// Vibrant extracts Vibrant, Muted and their dark and light variants from
// images, using a median-cut quantizer and slot scoring.
package main

import (
	"os"

	"github.com/jmylchreest/vibrant/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
