package payment

import (
	"context"
	"log"
	"time"
)

const expiredHoldNote = "Expired: no response within the hold window"

// SweepConfig holds configuration for the expiry sweep.
type SweepConfig struct {
	HoldExpiry  time.Duration // cancel authorized holds older than this
	Interval    time.Duration // how often to run the sweep
	EnableSweep bool          // enable automatic sweeping via goroutine
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		HoldExpiry:  7 * 24 * time.Hour,
		Interval:    time.Hour,
		EnableSweep: true,
	}
}

// SweepService cancels authorized holds that were never answered. Each
// record is handled independently so one gateway failure does not stall
// the rest of the sweep, and the cancelled transition reuses the same
// compare-and-set guard as the webhook path, which makes racing a live
// reaction or webhook delivery safe.
type SweepService struct {
	bookings   bookingStore
	guestSpots guestSpotStore
	gateway    intentCanceler
	notifs     notificationSender
	nowFunc    func() time.Time
}

func NewSweepService(bookings bookingStore, guestSpots guestSpotStore, gw intentCanceler, notifs notificationSender) *SweepService {
	return &SweepService{
		bookings:   bookings,
		guestSpots: guestSpots,
		gateway:    gw,
		notifs:     notifs,
		nowFunc:    time.Now,
	}
}

// SweepOnce runs one pass over both hold-bearing families.
func (s *SweepService) SweepOnce(ctx context.Context, holdExpiry time.Duration) error {
	startTime := s.nowFunc()
	cutoff := startTime.Add(-holdExpiry)

	swept := s.sweepBookings(ctx, cutoff)
	swept += s.sweepGuestSpots(ctx, cutoff)

	log.Printf("expiry sweep completed: cancelled %d stale holds in %v", swept, time.Since(startTime))
	return nil
}

func (s *SweepService) sweepBookings(ctx context.Context, cutoff time.Time) int {
	expired, err := s.bookings.FindExpiredAuthorized(ctx, cutoff)
	if err != nil {
		log.Printf("expiry sweep: booking scan failed: %v", err)
		return 0
	}

	swept := 0
	for _, b := range expired {
		if b.StripeIntentID == "" {
			log.Printf("expiry sweep: booking %d authorized without intent id, skipping", b.ID)
			continue
		}
		if _, err := s.gateway.CancelPaymentIntent(ctx, b.StripeIntentID); err != nil {
			log.Printf("expiry sweep: cancel failed for booking %d: %v", b.ID, err)
			continue
		}
		changed, err := s.bookings.MarkExpired(ctx, b.ID, expiredHoldNote)
		if err != nil {
			log.Printf("expiry sweep: mark expired failed for booking %d: %v", b.ID, err)
			continue
		}
		if !changed {
			// A reaction or webhook got there first.
			continue
		}
		swept++
		s.notifs.HoldExpired(ctx, b.PayerID(), string(FamilyBooking), b.PublicID)
	}
	return swept
}

func (s *SweepService) sweepGuestSpots(ctx context.Context, cutoff time.Time) int {
	expired, err := s.guestSpots.FindExpiredAuthorized(ctx, cutoff)
	if err != nil {
		log.Printf("expiry sweep: guest spot scan failed: %v", err)
		return 0
	}

	swept := 0
	for _, g := range expired {
		if g.StripeIntentID == "" {
			log.Printf("expiry sweep: guest spot %d authorized without intent id, skipping", g.ID)
			continue
		}
		if _, err := s.gateway.CancelPaymentIntent(ctx, g.StripeIntentID); err != nil {
			log.Printf("expiry sweep: cancel failed for guest spot %d: %v", g.ID, err)
			continue
		}
		changed, err := s.guestSpots.MarkExpired(ctx, g.ID, expiredHoldNote)
		if err != nil {
			log.Printf("expiry sweep: mark expired failed for guest spot %d: %v", g.ID, err)
			continue
		}
		if !changed {
			continue
		}
		swept++
		s.notifs.HoldExpired(ctx, g.PayerID(), string(FamilyGuestSpot), g.PublicID)
	}
	return swept
}

// Schedule starts a background goroutine running the sweep on a fixed
// interval. The returned channel stops it.
func (s *SweepService) Schedule(ctx context.Context, config SweepConfig) chan struct{} {
	if !config.EnableSweep {
		log.Println("Automatic expiry sweep is disabled")
		return nil
	}

	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.SweepOnce(ctx, config.HoldExpiry); err != nil {
					log.Printf("Scheduled expiry sweep error: %v", err)
				}
			case <-stopCh:
				log.Println("Scheduled expiry sweep stopped")
				return
			case <-ctx.Done():
				log.Println("Scheduled expiry sweep stopped (context Done)")
				return
			}
		}
	}()

	log.Printf("Scheduled expiry sweep started with interval %v", config.Interval)
	return stopCh
}
