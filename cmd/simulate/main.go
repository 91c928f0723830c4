package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexidrill/backend/internal/infrastructure/config"
	"github.com/lexidrill/backend/internal/service"
	"github.com/lexidrill/backend/internal/sessions"
	"github.com/lexidrill/backend/internal/simulation"
	"github.com/lexidrill/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seedIfEmpty(ctx, db, logger); err != nil {
		logger.Error("failed to seed vocabulary", "error", err)
		os.Exit(1)
	}

	sessionStore := sessions.New(cfg.SessionMaxAge, logger)
	go sessionStore.Run(ctx, cfg.SweepInterval)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	svc := service.NewQuizService(db, db, sessionStore, rng, logger)
	svc.PoolSize = cfg.PoolSize

	// ── Simulation ──────────────────────────────────────────────────
	logger.Info("starting quiz simulation", "takers", cfg.SimUsers)
	outcomes := simulation.Run(ctx, svc, cfg.SimUsers, logger)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	logger.Info("simulation complete", "takers", len(outcomes), "failed", failed)

	// Query side of the result sink, for one taker.
	if len(outcomes) > 0 {
		userID := outcomes[0].UserID
		history, err := db.ListRecords(ctx, userID, 10)
		if err != nil {
			logger.Error("failed to list records", "user_id", userID, "error", err)
			return
		}
		stats, err := db.RecordStats(ctx, userID, time.Now().Add(-24*time.Hour))
		if err != nil {
			logger.Error("failed to load stats", "user_id", userID, "error", err)
			return
		}
		logger.Info("taker history",
			"user_id", userID,
			"records", len(history),
			"total_tests", stats.TotalTests,
			"average_score", stats.AverageScore,
		)
	}
}

// seedIfEmpty loads the demo vocabulary on first run.
func seedIfEmpty(ctx context.Context, db *store.SQLiteStore, logger *slog.Logger) error {
	n, err := db.CountWords(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var seeded int
	for _, w := range simulation.SeedWords() {
		if err := db.SaveWord(ctx, &w); err != nil {
			return err
		}
		seeded++
	}
	logger.Info("seeded demo vocabulary", "words", seeded)
	return nil
}
