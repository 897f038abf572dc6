package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/coach-billing/internal/config"
	"github.com/strideapp/coach-billing/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log.Info().Msg("starting billing scheduler")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	billingRepo := repository.NewBillingRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("invalid scheduler timezone")
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job flipping stale pending entries and past-due invoices to
	// overdue. Entries of cancelled lessons are never touched.
	_, err = c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		markOverdue(billingRepo)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule overdue job")
	}

	c.Start()
	log.Info().Str("cron", cfg.Scheduler.OverdueCron).Msg("scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down scheduler")
	c.Stop()
	log.Info().Msg("scheduler stopped")
}

func markOverdue(billingRepo repository.BillingRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()

	entries, err := billingRepo.MarkOverdueEntries(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("marking overdue entries failed")
	}

	invoices, err := billingRepo.MarkOverdueInvoices(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("marking overdue invoices failed")
	}

	log.Info().
		Int64("entries", entries).
		Int64("invoices", invoices).
		Msg("overdue pass complete")
}
