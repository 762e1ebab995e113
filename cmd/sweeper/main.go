package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/gateway"
	"inkwell/internal/modules/notification"
	"inkwell/internal/modules/payment"
	"inkwell/internal/repository"
)

// One-shot expiry sweep for cron-style deployments where the API
// process runs with ENABLE_SWEEP=false.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	stripeClient := gateway.NewClient(gateway.Config{
		SecretKey: cfg.StripeSecretKey,
	})

	notifRepo := notification.NewRepository(db)
	notifService := notification.NewService(
		notifRepo,
		nil,
		notification.NewDedupCache(cfg.HoldExpiry),
		log.Printf,
	)

	cleanup := notification.NewCleanupService(notifRepo, log.Printf)
	if err := cleanup.CleanupOld(context.Background(), notification.DefaultCleanupConfig().Retention); err != nil {
		log.Printf("notification cleanup failed: %v", err)
	}

	sweeper := payment.NewSweepService(
		repository.NewBookingRepository(db),
		repository.NewGuestSpotRepository(db),
		stripeClient,
		notifService,
	)

	if err := sweeper.SweepOnce(context.Background(), cfg.HoldExpiry); err != nil {
		log.Fatalf("expiry sweep failed: %v", err)
	}
	log.Println("expiry sweep completed")
}
