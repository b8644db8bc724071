package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/memkeep/internal/persistence"
)

var reputationCmd = &cobra.Command{
	Use:   "reputation",
	Short: "Inspect a settlement's reputation board",
}

var reputationShowCmd = &cobra.Command{
	Use:   "show <settlement>",
	Short: "Print the stored reputation board for a settlement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settlement, err := parseSettlementID(args[0])
		if err != nil {
			return err
		}

		db, err := persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		board, err := db.LoadBoard(settlement)
		if err != nil {
			return err
		}

		fmt.Printf("settlement %s — %d tracked entities\n", settlement, len(board.Entries))
		for _, entry := range board.Entries {
			fmt.Printf("  %s: score %.2f — %s\n", entry.Entity, entry.Score, entry.Tier.Description())
		}
		for _, deed := range board.NotableDeeds {
			fmt.Printf("  deed: %s (witnessed by %d)\n", deed.Description, deed.WitnessCount)
		}
		return nil
	},
}
