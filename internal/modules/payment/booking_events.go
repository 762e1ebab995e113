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

// BookingEvents applies gateway events to the direct-booking family.
// Every transition is a compare-and-set against the persisted status, so
// duplicate and out-of-order delivery degrade to no-ops.
type BookingEvents struct {
	bookings bookingStore
	notifs   notificationSender
	loggerf  func(format string, args ...interface{})
	nowFunc  func() time.Time
}

func NewBookingEvents(bookings bookingStore, notifs notificationSender, loggerf func(format string, args ...interface{})) *BookingEvents {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &BookingEvents{
		bookings: bookings,
		notifs:   notifs,
		loggerf:  loggerf,
		nowFunc:  time.Now,
	}
}

// handleCheckoutCompleted records the payment intent id once the hosted
// checkout finishes. No payment-status change yet; the authorization is
// reported separately by amount_capturable_updated.
func (e *BookingEvents) handleCheckoutCompleted(ctx context.Context, ev stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	b, err := e.bookings.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=booking not found for checkout session session_id=%s event_id=%s", sess.ID, ev.ID)
			return nil
		}
		return err
	}

	intentID := ""
	if sess.PaymentIntent != nil {
		intentID = sess.PaymentIntent.ID
	}
	if intentID == "" {
		e.loggerf("level=warn msg=checkout session has no intent booking_id=%d session_id=%s", b.ID, sess.ID)
		return nil
	}
	if b.StripeIntentID != "" && b.StripeIntentID != intentID {
		// Data-integrity anomaly: never silently overwrite the intent.
		e.loggerf("level=error msg=intent id mismatch booking_id=%d on_file=%s event=%s event_id=%s", b.ID, b.StripeIntentID, intentID, ev.ID)
		return nil
	}

	if err := e.bookings.AttachCheckoutSession(ctx, b.ID, sess.ID, intentID); err != nil {
		return err
	}
	return nil
}

// handleAmountCapturableUpdated moves the booking to authorized when the
// gateway reports funds on hold.
func (e *BookingEvents) handleAmountCapturableUpdated(ctx context.Context, ev stripe.Event) error {
	b, pi, err := e.findByIntent(ctx, ev)
	if err != nil || b == nil {
		return err
	}

	changed, err := e.bookings.MarkAuthorized(ctx, b.ID, e.nowFunc())
	if err != nil {
		return err
	}
	if !changed {
		e.loggerf("level=info msg=authorize no-op booking_id=%d status=%s event_id=%s", b.ID, b.PaymentStatus, ev.ID)
		return nil
	}

	e.loggerf("level=info msg=booking authorized booking_id=%d intent_id=%s", b.ID, pi.ID)
	e.notifs.DepositAuthorized(ctx, b.PayeeID(), string(FamilyBooking), b.PublicID, b.DepositAmount, b.Currency)
	return nil
}

// handlePaymentSucceeded moves authorized -> paid after capture settles.
func (e *BookingEvents) handlePaymentSucceeded(ctx context.Context, ev stripe.Event) error {
	b, _, err := e.findByIntent(ctx, ev)
	if err != nil || b == nil {
		return err
	}

	changed, err := e.bookings.MarkPaid(ctx, b.ID, e.nowFunc())
	if err != nil {
		return err
	}
	if !changed {
		e.loggerf("level=info msg=paid no-op booking_id=%d status=%s event_id=%s", b.ID, b.PaymentStatus, ev.ID)
		return nil
	}

	e.notifs.PaymentCaptured(ctx, b.PayerID(), b.PayeeID(), string(FamilyBooking), b.PublicID, b.DepositAmount, b.Currency)
	return nil
}

func (e *BookingEvents) handlePaymentFailed(ctx context.Context, ev stripe.Event) error {
	b, _, err := e.findByIntent(ctx, ev)
	if err != nil || b == nil {
		return err
	}

	changed, err := e.bookings.MarkFailed(ctx, b.ID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.notifs.PaymentFailed(ctx, b.PayerID(), string(FamilyBooking), b.PublicID)
	return nil
}

func (e *BookingEvents) handlePaymentCanceled(ctx context.Context, ev stripe.Event) error {
	b, _, err := e.findByIntent(ctx, ev)
	if err != nil || b == nil {
		return err
	}

	changed, err := e.bookings.MarkCancelled(ctx, b.ID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.notifs.FundsReleased(ctx, b.PayerID(), string(FamilyBooking), b.PublicID)
	return nil
}

// findByIntent correlates an intent-level event with its booking. A
// missing record is logged and dropped; webhooks never create records.
func (e *BookingEvents) findByIntent(ctx context.Context, ev stripe.Event) (*domain.Booking, *stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, nil, fmt.Errorf("parse payment intent: %w", err)
	}

	b, err := e.bookings.GetByIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=booking not found for intent intent_id=%s type=%s event_id=%s", pi.ID, ev.Type, ev.ID)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return b, &pi, nil
}
