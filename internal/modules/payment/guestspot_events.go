package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"inkwell/internal/domain"
)

// GuestSpotEvents applies gateway events to the guest-spot family. The
// flow mirrors direct bookings with the artist paying the shop, but the
// family evolves independently and keeps its own handler set.
type GuestSpotEvents struct {
	guestSpots guestSpotStore
	notifs     notificationSender
	loggerf    func(format string, args ...interface{})
	nowFunc    func() time.Time
}

func NewGuestSpotEvents(guestSpots guestSpotStore, notifs notificationSender, loggerf func(format string, args ...interface{})) *GuestSpotEvents {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &GuestSpotEvents{
		guestSpots: guestSpots,
		notifs:     notifs,
		loggerf:    loggerf,
		nowFunc:    time.Now,
	}
}

func (e *GuestSpotEvents) handleCheckoutCompleted(ctx context.Context, ev stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	g, err := e.guestSpots.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=guest spot not found for checkout session session_id=%s event_id=%s", sess.ID, ev.ID)
			return nil
		}
		return err
	}

	intentID := ""
	if sess.PaymentIntent != nil {
		intentID = sess.PaymentIntent.ID
	}
	if intentID == "" {
		e.loggerf("level=warn msg=checkout session has no intent guest_spot_id=%d session_id=%s", g.ID, sess.ID)
		return nil
	}
	if g.StripeIntentID != "" && g.StripeIntentID != intentID {
		e.loggerf("level=error msg=intent id mismatch guest_spot_id=%d on_file=%s event=%s event_id=%s", g.ID, g.StripeIntentID, intentID, ev.ID)
		return nil
	}

	return e.guestSpots.AttachCheckoutSession(ctx, g.ID, sess.ID, intentID)
}

func (e *GuestSpotEvents) handleAmountCapturableUpdated(ctx context.Context, ev stripe.Event) error {
	g, pi, err := e.findByIntent(ctx, ev)
	if err != nil || g == nil {
		return err
	}

	changed, err := e.guestSpots.MarkAuthorized(ctx, g.ID, e.nowFunc())
	if err != nil {
		return err
	}
	if !changed {
		e.loggerf("level=info msg=authorize no-op guest_spot_id=%d status=%s event_id=%s", g.ID, g.PaymentStatus, ev.ID)
		return nil
	}

	e.loggerf("level=info msg=guest spot authorized guest_spot_id=%d intent_id=%s", g.ID, pi.ID)
	e.notifs.DepositAuthorized(ctx, g.PayeeID(), string(FamilyGuestSpot), g.PublicID, g.DepositAmount, g.Currency)
	return nil
}

func (e *GuestSpotEvents) handlePaymentSucceeded(ctx context.Context, ev stripe.Event) error {
	g, _, err := e.findByIntent(ctx, ev)
	if err != nil || g == nil {
		return err
	}

	changed, err := e.guestSpots.MarkPaid(ctx, g.ID, e.nowFunc())
	if err != nil {
		return err
	}
	if !changed {
		e.loggerf("level=info msg=paid no-op guest_spot_id=%d status=%s event_id=%s", g.ID, g.PaymentStatus, ev.ID)
		return nil
	}

	e.notifs.PaymentCaptured(ctx, g.PayerID(), g.PayeeID(), string(FamilyGuestSpot), g.PublicID, g.DepositAmount, g.Currency)
	return nil
}

func (e *GuestSpotEvents) handlePaymentFailed(ctx context.Context, ev stripe.Event) error {
	g, _, err := e.findByIntent(ctx, ev)
	if err != nil || g == nil {
		return err
	}

	changed, err := e.guestSpots.MarkFailed(ctx, g.ID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.notifs.PaymentFailed(ctx, g.PayerID(), string(FamilyGuestSpot), g.PublicID)
	return nil
}

func (e *GuestSpotEvents) handlePaymentCanceled(ctx context.Context, ev stripe.Event) error {
	g, _, err := e.findByIntent(ctx, ev)
	if err != nil || g == nil {
		return err
	}

	changed, err := e.guestSpots.MarkCancelled(ctx, g.ID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.notifs.FundsReleased(ctx, g.PayerID(), string(FamilyGuestSpot), g.PublicID)
	return nil
}

func (e *GuestSpotEvents) findByIntent(ctx context.Context, ev stripe.Event) (*domain.GuestSpotBooking, *stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, nil, fmt.Errorf("parse payment intent: %w", err)
	}

	g, err := e.guestSpots.GetByIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=guest spot not found for intent intent_id=%s type=%s event_id=%s", pi.ID, ev.Type, ev.ID)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return g, &pi, nil
}
