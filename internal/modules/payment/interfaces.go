package payment

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v82"

	"inkwell/internal/domain"
	"inkwell/internal/modules/notification"
)

type bookingStore interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.Booking, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error
	MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
	MarkExpired(ctx context.Context, id int64, note string) (bool, error)
	FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

type guestSpotStore interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.GuestSpotBooking, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.GuestSpotBooking, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error
	MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
	MarkExpired(ctx context.Context, id int64, note string) (bool, error)
	FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.GuestSpotBooking, error)
}

type tipStore interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Tip, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.Tip, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
}

type accountStore interface {
	UpdateCapabilities(ctx context.Context, stripeAccountID string, charges, payouts, details bool) error
	Upsert(ctx context.Context, a *domain.PayoutAccount) error
}

type notificationSender interface {
	DepositAuthorized(ctx context.Context, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome
	PaymentCaptured(ctx context.Context, payerID, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome
	FundsReleased(ctx context.Context, payerID int64, family, recordID string) notification.Outcome
	PaymentFailed(ctx context.Context, payerID int64, family, recordID string) notification.Outcome
	HoldExpired(ctx context.Context, payerID int64, family, recordID string) notification.Outcome
	TipReceived(ctx context.Context, artistID int64, tipID string, amount int64, currency string) notification.Outcome
}

type eventVerifier interface {
	VerifyEvent(payload []byte, sigHeader string, tip bool) (stripe.Event, error)
}

type intentCanceler interface {
	CancelPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
}
