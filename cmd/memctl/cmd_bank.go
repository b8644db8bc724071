package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/memkeep/internal/decay"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/persistence"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and maintain a single entity's memory bank",
}

var bankShowCmd = &cobra.Command{
	Use:   "show <entity>",
	Short: "Print a summary of an entity's stored memory bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntityID(args[0])
		if err != nil {
			return err
		}

		db, err := persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		bank, err := db.LoadBank(entity)
		if err != nil {
			return err
		}

		fmt.Printf("entity %s — %d memories total\n", entity, bank.TotalCount())
		fmt.Printf("  episodic:   %d\n", len(bank.Episodic))
		fmt.Printf("  semantic:   %d\n", len(bank.Semantic))
		fmt.Printf("  emotional:  %d\n", len(bank.Emotional))
		fmt.Printf("  social:     %d\n", len(bank.Social))
		fmt.Printf("  reflective: %d\n", len(bank.Reflective))
		fmt.Printf("  procedural: %d\n", len(bank.Procedural))
		fmt.Printf("  injected:   %d\n", len(bank.Injected))

		for _, m := range bank.Episodic {
			fmt.Printf("  - [episodic] %s (formed %s, valence %.2f, strength %s)\n",
				m.Event, humanize.Time(m.Timestamp.RealTime), m.EmotionalValence, humanize.Ftoa(float64(m.Strength)))
		}
		return nil
	},
}

var bankDecayCmd = &cobra.Command{
	Use:   "decay <entity>",
	Short: "Run one decay pass over an entity's bank at the given tick and persist the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntityID(args[0])
		if err != nil {
			return err
		}
		tick, _ := cmd.Flags().GetUint64("tick")

		db, err := persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		bank, err := db.LoadBank(entity)
		if err != nil {
			return err
		}

		before := bank.TotalCount()
		bank.Episodic = decay.DecayEpisodic(bank.Episodic, tick, 0.05)
		bank.Social = decay.DecaySocial(bank.Social, tick, 0.05)
		after := bank.TotalCount()

		if err := db.SaveBank(entity, bank, tick); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "entity %s: %d memories before decay, %d after (tick %s)\n",
			entity, before, after, humanize.Comma(int64(tick)))
		return nil
	},
}

func init() {
	bankDecayCmd.Flags().Uint64("tick", 0, "current game tick to decay against")
}

func parseEntityID(s string) (ident.EntityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ident.EntityID{}, fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	return ident.EntityID(u), nil
}

func parseSettlementID(s string) (ident.SettlementID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ident.SettlementID{}, fmt.Errorf("invalid settlement id %q: %w", s, err)
	}
	return ident.SettlementID(u), nil
}
