// Package cli implements the arenactl commands: running battles,
// verifying claims, sweeping seeds, guild battles, replay rendering and
// battle export.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// dbPath is the battle database location, set via the --db flag.
var dbPath string

// rootCmd is the top-level cobra command for the arenactl CLI.
var rootCmd = &cobra.Command{
	Use:   "arenactl",
	Short: "Fortress-arena battle tool",
	Long:  "Run, verify, sweep and inspect deterministic fortress-arena battles.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".fortress-arena", "battles.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to the battle database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(guildCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
}

// mustUserHome returns the current user's home directory, falling back
// to "." if it cannot be determined.
func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
