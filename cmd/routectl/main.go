// Package main is routectl, a command line tool that inspects route
// documents: it lists routes and services, resolves requests offline and
// validates documents.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
		os.Exit(1)
	}
}
