package guestspot

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v82"

	"inkwell/internal/domain"
	"inkwell/internal/gateway"
	"inkwell/internal/modules/notification"
)

type guestSpotRepo interface {
	Create(ctx context.Context, g *domain.GuestSpotBooking) error
	GetByPublicID(ctx context.Context, publicID string) (*domain.GuestSpotBooking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GuestSpotBooking, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error
	UpdateReaction(ctx context.Context, id int64, reaction domain.Reaction, note string) (bool, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
}

type accountReader interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.PayoutAccount, error)
}

type checkoutGateway interface {
	CreateCheckoutSession(ctx context.Context, p gateway.CheckoutParams) (*gateway.CheckoutSession, error)
	CapturePaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
}

type notificationSender interface {
	PaymentCaptured(ctx context.Context, payerID, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome
	FundsReleased(ctx context.Context, payerID int64, family, recordID string) notification.Outcome
	ReactionChanged(ctx context.Context, recipientID int64, family, recordID string, reaction domain.Reaction, note string) notification.Outcome
}
