// Package main provides the docsteer CLI entry point.
package main

import (
	"os"

	"github.com/docsteer/docsteer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
