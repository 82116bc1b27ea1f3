// veloxide is the command-line interface for the veloxide event-sourced
// bank account service.
//
// Usage:
//
//	veloxide <command> [flags]
//
// Commands:
//
//	demo        Run a bank account scenario end to end
//	migrate     Create the database schema
//	version     Show version information
package main

import (
	"os"

	"github.com/liamwh/veloxide/cli/commands"
)

// Build information (set via ldflags).
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.BuildDate = buildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
