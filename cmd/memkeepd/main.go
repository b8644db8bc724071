// Command memkeepd is the memory engine's long-running daemon: it opens
// the bank/board database, loads every persisted entity and settlement,
// and drives the per-tick orchestrator on a fixed interval until
// interrupted, auto-saving on a cadence and again on shutdown. Grounded
// in cmd/worldsim/main.go's shape — a flag-free main() that wires
// persistence, an engine, and optional external clients from environment
// variables, then blocks on a signal channel.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/llmclient"
	"github.com/talgya/memkeep/internal/orchestrator"
	"github.com/talgya/memkeep/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := envOr("MEMKEEPD_DB", "data/memkeep.sqlite")
	tickInterval := 100 * time.Millisecond
	saveEveryTicks := uint64(600) // roughly once a sim-minute at a 100ms tick

	slog.Info("memkeepd starting", "db", dbPath)

	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := config.Default()
	if cfgPath := os.Getenv("MEMKEEPD_CONFIG"); cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			slog.Error("failed to load config", "path", cfgPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	llm := llmclient.NewClient(anthropicKey)
	if llm.Enabled() {
		slog.Info("LLM client enabled (Haiku)")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — reflection narration will use fallback templates")
	}

	orch := orchestrator.New(cfg, 512)

	entities, err := db.ListEntities()
	if err != nil {
		slog.Error("failed to list entities", "error", err)
		os.Exit(1)
	}
	for _, entity := range entities {
		bank, err := db.LoadBank(entity)
		if err != nil {
			slog.Error("failed to load bank", "entity", entity.String(), "error", err)
			os.Exit(1)
		}
		orch.RegisterBank(entity, bank)
	}

	settlements, err := db.ListSettlements()
	if err != nil {
		slog.Error("failed to list settlements", "error", err)
		os.Exit(1)
	}
	for _, settlement := range settlements {
		board, err := db.LoadBoard(settlement)
		if err != nil {
			slog.Error("failed to load board", "settlement", settlement.String(), "error", err)
			os.Exit(1)
		}
		orch.RegisterBoard(settlement, board)
	}

	slog.Info("world loaded", "entities", len(entities), "settlements", len(settlements))

	saveAll := func(tick uint64) {
		for _, entity := range entities {
			if err := db.SaveBank(entity, orch.Bank(entity), tick); err != nil {
				slog.Error("save bank failed", "entity", entity.String(), "error", err)
			}
		}
		for _, settlement := range settlements {
			if err := db.SaveBoard(settlement, orch.Board(settlement), tick); err != nil {
				slog.Error("save board failed", "settlement", settlement.String(), "error", err)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runReflectionWorker(ctx, orch, llm)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var tick uint64
	fmt.Printf("memkeepd is alive: %d entities across %d settlements.\n", len(entities), len(settlements))
	fmt.Println("Starting orchestrator loop... (Ctrl+C to stop)")

	for {
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			saveAll(tick)
			fmt.Println("memkeepd stopped. World state saved.")
			return
		case <-ticker.C:
			tick++
			orch.Tick(ident.Now(tick))
			if tick%saveEveryTicks == 0 {
				saveAll(tick)
				slog.Info("autosaved", "tick", tick, "stats", orch.Stats())
			}
		}
	}
}

// runReflectionWorker drains reflection/consolidation jobs the orchestrator
// posts to its async queue and narrates them off the hot path, exactly as
// SPEC_FULL.md's LLM-integration section describes: a nil-client-means-
// disabled llmclient.Client falls back to logging the job unresolved.
func runReflectionWorker(ctx context.Context, orch *orchestrator.Orchestrator, llm *llmclient.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, ok := orch.Queue().Dequeue()
		if !ok {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		if req.IsExpired() {
			slog.Debug("reflection job expired before processing", "id", req.ID)
			continue
		}
		if !llm.Enabled() {
			slog.Debug("reflection job skipped (LLM disabled)", "id", req.ID)
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, req.TimeRemaining())
		text, err := llm.Complete(callCtx, llmclient.Request{
			System:      req.SystemPrompt,
			User:        req.UserPrompt,
			Grammar:     req.Grammar,
			MaxTokens:   int64(req.MaxTokens),
			Temperature: float64(req.Temperature),
		})
		cancel()
		if err != nil {
			slog.Warn("reflection job failed", "id", req.ID, "error", err)
			continue
		}
		slog.Debug("reflection job complete", "id", req.ID, "response_len", len(text))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
