// Package main is the entry point for the richlist command.
package main

import (
	"os"

	"github.com/dshills/richlist/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.VersionInfo{Version: version, Commit: commit, Date: date}))
}
