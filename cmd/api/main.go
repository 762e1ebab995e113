package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/gateway"
	"inkwell/internal/middleware"
	"inkwell/internal/modules/booking"
	"inkwell/internal/modules/guestspot"
	"inkwell/internal/modules/notification"
	"inkwell/internal/modules/payment"
	"inkwell/internal/modules/tip"
	jwtsvc "inkwell/internal/pkg/jwt"
	"inkwell/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	if err := db.AutoMigrate(&notification.Notification{}); err != nil {
		log.Fatalf("migrate notifications failed: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	guestSpotRepo := repository.NewGuestSpotRepository(db)
	tipRepo := repository.NewTipRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	stripeClient := gateway.NewClient(gateway.Config{
		SecretKey:        cfg.StripeSecretKey,
		WebhookSecret:    cfg.StripeWebhookSecret,
		TipWebhookSecret: cfg.StripeTipWebhookSecret,
	})

	hub := notification.NewHub()
	notifRepo := notification.NewRepository(db)
	notifService := notification.NewService(
		notifRepo,
		hub,
		notification.NewDedupCache(24*time.Hour),
		log.Printf,
	)
	notifHandler := notification.NewHandler(notifService, hub)

	cleanup := notification.NewCleanupService(notifRepo, log.Printf)
	cleanupStop := cleanup.Schedule(context.Background(), notification.DefaultCleanupConfig())
	if cleanupStop != nil {
		defer close(cleanupStop)
	}

	bookingEvents := payment.NewBookingEvents(bookingRepo, notifService, log.Printf)
	guestSpotEvents := payment.NewGuestSpotEvents(guestSpotRepo, notifService, log.Printf)
	tipEvents := payment.NewTipEvents(tipRepo, notifService, log.Printf)
	accountEvents := payment.NewAccountEvents(accountRepo, log.Printf)
	eventRouter := payment.NewRouter(bookingEvents, guestSpotEvents, tipEvents, accountEvents, log.Printf)
	webhookHandler := payment.NewHandler(stripeClient, eventRouter, log.Printf)

	bookingService := booking.NewService(bookingRepo, accountRepo, stripeClient, notifService, cfg.SuccessURL, cfg.CancelURL, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	guestSpotService := guestspot.NewService(guestSpotRepo, accountRepo, stripeClient, notifService, cfg.SuccessURL, cfg.CancelURL, log.Printf)
	guestSpotHandler := guestspot.NewHandler(guestSpotService)

	tipService := tip.NewService(tipRepo, accountRepo, stripeClient, cfg.SuccessURL, cfg.CancelURL, log.Printf)
	tipHandler := tip.NewHandler(tipService)

	sweeper := payment.NewSweepService(bookingRepo, guestSpotRepo, stripeClient, notifService)
	sweepStop := sweeper.Schedule(context.Background(), payment.SweepConfig{
		HoldExpiry:  cfg.HoldExpiry,
		Interval:    cfg.SweepInterval,
		EnableSweep: cfg.EnableSweep,
	})
	if sweepStop != nil {
		defer close(sweepStop)
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public: signature-verified gateway callbacks
		webhookHandler.RegisterWebhookRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(tokens))
		{
			bookingHandler.RegisterRoutes(protected)
			guestSpotHandler.RegisterRoutes(protected)
			tipHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
