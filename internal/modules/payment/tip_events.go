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

// TipEvents applies gateway events to tips. Tips are single-phase: no
// hold, no reaction gate. A checkout can complete before the payment is
// confirmed (async methods like bank transfers), in which case the tip
// stays pending until the follow-up event arrives.
type TipEvents struct {
	tips    tipStore
	notifs  notificationSender
	loggerf func(format string, args ...interface{})
	nowFunc func() time.Time
}

func NewTipEvents(tips tipStore, notifs notificationSender, loggerf func(format string, args ...interface{})) *TipEvents {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &TipEvents{
		tips:    tips,
		notifs:  notifs,
		loggerf: loggerf,
		nowFunc: time.Now,
	}
}

func (e *TipEvents) handleCheckoutCompleted(ctx context.Context, ev stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	t, err := e.tips.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=tip not found for checkout session session_id=%s event_id=%s", sess.ID, ev.ID)
			return nil
		}
		return err
	}

	intentID := ""
	if sess.PaymentIntent != nil {
		intentID = sess.PaymentIntent.ID
	}
	if intentID != "" {
		if t.StripeIntentID != "" && t.StripeIntentID != intentID {
			e.loggerf("level=error msg=intent id mismatch tip_id=%d on_file=%s event=%s event_id=%s", t.ID, t.StripeIntentID, intentID, ev.ID)
			return nil
		}
		if err := e.tips.AttachCheckoutSession(ctx, t.ID, sess.ID, intentID); err != nil {
			return err
		}
	}

	// Async payment methods complete the session before the money moves.
	// Keep the tip pending; async_payment_succeeded finishes the job.
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		e.loggerf("level=info msg=tip checkout completed awaiting payment tip_id=%d payment_status=%s", t.ID, sess.PaymentStatus)
		return nil
	}

	return e.complete(ctx, t, ev)
}

func (e *TipEvents) handleAsyncPaymentSucceeded(ctx context.Context, ev stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	t, err := e.tips.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=tip not found for async success session_id=%s event_id=%s", sess.ID, ev.ID)
			return nil
		}
		return err
	}
	return e.complete(ctx, t, ev)
}

func (e *TipEvents) handleAsyncPaymentFailed(ctx context.Context, ev stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	t, err := e.tips.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=tip not found for async failure session_id=%s event_id=%s", sess.ID, ev.ID)
			return nil
		}
		return err
	}

	if _, err := e.tips.MarkFailed(ctx, t.ID); err != nil {
		return err
	}
	return nil
}

func (e *TipEvents) handlePaymentSucceeded(ctx context.Context, ev stripe.Event) error {
	t, err := e.findByIntent(ctx, ev)
	if err != nil || t == nil {
		return err
	}
	return e.complete(ctx, t, ev)
}

func (e *TipEvents) handlePaymentFailed(ctx context.Context, ev stripe.Event) error {
	t, err := e.findByIntent(ctx, ev)
	if err != nil || t == nil {
		return err
	}
	if _, err := e.tips.MarkFailed(ctx, t.ID); err != nil {
		return err
	}
	return nil
}

func (e *TipEvents) handlePaymentCanceled(ctx context.Context, ev stripe.Event) error {
	t, err := e.findByIntent(ctx, ev)
	if err != nil || t == nil {
		return err
	}
	if _, err := e.tips.MarkCancelled(ctx, t.ID); err != nil {
		return err
	}
	return nil
}

// handleAmountCapturableUpdated is an explicit no-op: tips charge
// immediately and never enter a capturable hold.
func (e *TipEvents) handleAmountCapturableUpdated(ctx context.Context, ev stripe.Event) error {
	e.loggerf("level=info msg=ignoring capturable update for tip event_id=%s", ev.ID)
	return nil
}

func (e *TipEvents) complete(ctx context.Context, t *domain.Tip, ev stripe.Event) error {
	changed, err := e.tips.MarkCompleted(ctx, t.ID, e.nowFunc())
	if err != nil {
		return err
	}
	if !changed {
		e.loggerf("level=info msg=tip complete no-op tip_id=%d status=%s event_id=%s", t.ID, t.Status, ev.ID)
		return nil
	}

	e.notifs.TipReceived(ctx, t.ArtistID, t.PublicID, t.Amount, t.Currency)
	return nil
}

func (e *TipEvents) findByIntent(ctx context.Context, ev stripe.Event) (*domain.Tip, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("parse payment intent: %w", err)
	}

	t, err := e.tips.GetByIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=tip not found for intent intent_id=%s type=%s event_id=%s", pi.ID, ev.Type, ev.ID)
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}
