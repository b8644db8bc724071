// Command memctl is an operator CLI for inspecting and driving the memory
// engine's persisted state: showing and decaying a single entity's bank,
// running the tick orchestrator over everything in a database, and showing
// a settlement's reputation board. Grounded in the pack's cobra idiom
// (theRebelliousNerd-codenerd's cmd/nerd: one rootCmd, subcommands added in
// init(), --db/--verbose as persistent flags) rather than the teacher's own
// flag-free daemon shape, which has no subcommand surface to imitate.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Operator CLI for the memkeep cognitive memory engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "memkeep.sqlite", "path to the memkeep SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	bankCmd.AddCommand(bankShowCmd, bankDecayCmd)
	tickCmd.AddCommand(tickRunCmd)
	reputationCmd.AddCommand(reputationShowCmd)

	rootCmd.AddCommand(bankCmd, tickCmd, reputationCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
