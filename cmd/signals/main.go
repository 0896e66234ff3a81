package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"binary-signal-bot-go/internal/auth"
	"binary-signal-bot-go/internal/config"
	"binary-signal-bot-go/internal/connectivity"
	"binary-signal-bot-go/internal/database"
	"binary-signal-bot-go/internal/engine"
	"binary-signal-bot-go/internal/ledger"
	"binary-signal-bot-go/internal/logger"
	"binary-signal-bot-go/internal/models"
	"binary-signal-bot-go/internal/monetize"
	"binary-signal-bot-go/internal/quota"
	signalgen "binary-signal-bot-go/internal/signal"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	log.Info("Database opened and schema migrated.")

	// Core components
	trades := ledger.New(db, log)
	tracker := quota.New(db, log)
	authSvc := auth.NewService(db, tracker, log)
	gate := monetize.NewStubGate(time.Duration(cfg.Signals.AdDelayMs)*time.Millisecond, log)

	// Background connectivity probe
	probe := connectivity.NewProbe(
		cfg.Connectivity.ProbeURL,
		time.Duration(cfg.Connectivity.IntervalSeconds)*time.Second,
		time.Duration(cfg.Connectivity.TimeoutSeconds)*time.Second,
		log,
	)

	// Reconcile today's quota against the stored plan before ticking starts.
	profile := authSvc.Profile()
	state, err := tracker.Reconcile(quota.Today(time.Now()), models.PlanAllotment(profile.Plan))
	if err != nil {
		log.Fatal("Failed to reconcile daily quota", zap.Error(err))
	}
	log.Info("Quota reconciled",
		zap.String("plan", profile.Plan),
		zap.Int("trades_remaining", state.TradesRemaining))

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	go probe.Run(ctx)

	// Initialize the signal engine and its API surface
	eng := engine.NewEngine(log, &cfg, engine.Deps{
		Generator: signalgen.NewGenerator(nil),
		Ledger:    trades,
		Quota:     tracker,
		Conn:      probe,
		Gate:      gate,
	})
	eng.SetAuthenticated(authSvc.Active())

	apiServer := engine.NewAPIServer(eng, authSvc, trades, log)
	apiServer.Start()

	eng.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("API server shutdown failed", zap.Error(err))
	}

	log.Info("Signal bot has been shut down.")
}
