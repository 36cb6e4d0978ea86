// Command veggiesim runs the VeggieChain farm-to-market game server.
// It resumes the most recent run from the database, or starts a fresh one.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/veggiechain/internal/api"
	"github.com/talgya/veggiechain/internal/config"
	"github.com/talgya/veggiechain/internal/demand"
	"github.com/talgya/veggiechain/internal/persistence"
	"github.com/talgya/veggiechain/internal/session"
	"github.com/talgya/veggiechain/internal/sim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	params := cfg.SimParams()
	slog.Info("VeggieChain starting",
		"farm_spoil_rate", params.FarmSpoilRate,
		"market_spoil_rate", params.MarketSpoilRate,
		"shipping_capacity", params.ShippingCapacity(),
		"initial_cash", params.InitialCash,
	)

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	store, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Resume or create a run ────────────────────────────────────────
	run, err := store.LatestRun()
	if err != nil {
		slog.Error("failed to look up latest run", "error", err)
		os.Exit(1)
	}

	var state *sim.State
	if run != nil {
		state, err = store.RestoreState(run)
		if err != nil {
			slog.Error("failed to restore run", "run", run.ID, "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved run found, starting fresh")
		newRun, err := store.CreateRun(params.InitialCash, cfg.DemandSeed)
		if err != nil {
			slog.Error("failed to create run", "error", err)
			os.Exit(1)
		}
		run = &newRun
		state = sim.NewState(params.InitialCash)
	}

	// The generator seed travels with the run so a resumed game keeps its
	// demand curve.
	gen := demand.NewGenerator(run.DemandSeed, cfg.BaseDemand)

	sess := session.New(run.ID, state, sim.NewEngine(params), store, gen, run.DemandSeed)

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("VEGGIE_ADMIN_KEY not set — reset endpoint is unauthenticated")
	}
	server := &api.Server{
		Session:  sess,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	slog.Info("game ready", "run", run.ID, "day", state.Day, "cash", state.Cash)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
