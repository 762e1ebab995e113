package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "inkwell.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAccessTTL = "15m"
	defaultHoldExpiry   = "168h"
	defaultSweepEvery   = "1h"
	defaultSuccessURL   = "http://localhost:3000/payments/success"
	defaultCancelURL    = "http://localhost:3000/payments/cancel"
)

type Config struct {
	AppEnv       string
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration

	StripeSecretKey        string
	StripeWebhookSecret    string
	StripeTipWebhookSecret string

	SuccessURL string
	CancelURL  string

	// HoldExpiry is how long an uncaptured deposit authorization may
	// sit without a decision before the sweeper releases it.
	HoldExpiry    time.Duration
	SweepInterval time.Duration
	EnableSweep   bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripeWebhookSecret = strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	cfg.StripeTipWebhookSecret = strings.TrimSpace(os.Getenv("STRIPE_TIP_WEBHOOK_SECRET"))

	cfg.SuccessURL = strings.TrimSpace(getEnv("CHECKOUT_SUCCESS_URL", defaultSuccessURL))
	cfg.CancelURL = strings.TrimSpace(getEnv("CHECKOUT_CANCEL_URL", defaultCancelURL))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.HoldExpiry, err = parseDurationEnv("HOLD_EXPIRY", defaultHoldExpiry)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepEvery)
	if err != nil {
		return nil, err
	}
	cfg.EnableSweep = parseBoolEnv("ENABLE_SWEEP", "true")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.HoldExpiry <= 0 {
		return fmt.Errorf("HOLD_EXPIRY must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
		if cfg.StripeWebhookSecret == "" {
			return fmt.Errorf("in prod/release STRIPE_WEBHOOK_SECRET must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	switch env {
	case "prod", "production", "release":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func parseBoolEnv(key, fallback string) bool {
	raw := strings.ToLower(strings.TrimSpace(getEnv(key, fallback)))
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
