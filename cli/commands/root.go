// Package commands provides the CLI command implementations for veloxide.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamwh/veloxide/cli/styles"
)

// Version information (set at build time).
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command for the veloxide CLI.
func NewRootCommand() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "veloxide",
		Short: "Event-sourced bank account service",
		Long: styles.Title.Render("veloxide") + `

An event-sourced CQRS service built around a bank account aggregate.
Commands are validated against replayed state, committed to an
append-only event log and projected into queryable account views.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing veloxide.yaml")

	rootCmd.AddCommand(NewDemoCommand(&configDir))
	rootCmd.AddCommand(NewMigrateCommand(&configDir))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("veloxide %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Fail("%v", err))
		return err
	}
	return nil
}
