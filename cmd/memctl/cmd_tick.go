package main

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/orchestrator"
	"github.com/talgya/memkeep/internal/persistence"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Drive the per-tick orchestrator over a database's stored banks and boards",
}

var tickRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Load every bank and board, run N ticks of decay/capacity/reflection/reputation cadences, save the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetUint64("ticks")
		startTick, _ := cmd.Flags().GetUint64("start")
		configPath, _ := cmd.Flags().GetString("config")

		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		db, err := persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		entities, err := db.ListEntities()
		if err != nil {
			return err
		}
		settlements, err := db.ListSettlements()
		if err != nil {
			return err
		}

		orch := orchestrator.New(cfg, 256)
		for _, entity := range entities {
			bank, err := db.LoadBank(entity)
			if err != nil {
				return err
			}
			orch.RegisterBank(entity, bank)
		}
		for _, settlement := range settlements {
			board, err := db.LoadBoard(settlement)
			if err != nil {
				return err
			}
			orch.RegisterBoard(settlement, board)
		}

		for i := uint64(0); i < ticks; i++ {
			orch.Tick(ident.Now(startTick + i))
		}

		endTick := startTick + ticks
		for _, entity := range entities {
			if err := db.SaveBank(entity, orch.Bank(entity), endTick); err != nil {
				return err
			}
		}
		for _, settlement := range settlements {
			if err := db.SaveBoard(settlement, orch.Board(settlement), endTick); err != nil {
				return err
			}
		}

		stats := orch.Stats()
		slog.Info("tick run complete", "ticks", ticks, "entities", len(entities), "settlements", len(settlements))
		fmt.Printf("ran %s ticks over %d banks and %d boards\n", humanize.Comma(int64(ticks)), len(entities), len(settlements))
		fmt.Printf("  reflection jobs enqueued: %d\n", stats.ReflectionJobs)
		fmt.Printf("  budget violations:        %d\n", stats.BudgetViolations)
		return nil
	},
}

func init() {
	tickRunCmd.Flags().Uint64("ticks", 1, "number of ticks to run")
	tickRunCmd.Flags().Uint64("start", 0, "starting game tick")
	tickRunCmd.Flags().String("config", "", "path to a YAML config overriding defaults")
}
