package tip

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/internal/domain"
	"inkwell/internal/gateway"
	"inkwell/internal/pkg/validator"
)

const defaultCurrency = "usd"

type tipRepo interface {
	Create(ctx context.Context, t *domain.Tip) error
	GetByPublicID(ctx context.Context, publicID string) (*domain.Tip, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error
}

type accountReader interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.PayoutAccount, error)
}

type checkoutGateway interface {
	CreateCheckoutSession(ctx context.Context, p gateway.CheckoutParams) (*gateway.CheckoutSession, error)
}

type Service struct {
	tips     tipRepo
	accounts accountReader
	gateway  checkoutGateway
	loggerf  func(format string, args ...interface{})
	nowFunc  func() time.Time

	successURL string
	cancelURL  string
}

func NewService(tips tipRepo, accounts accountReader, gw checkoutGateway, successURL, cancelURL string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		tips:       tips,
		accounts:   accounts,
		gateway:    gw,
		loggerf:    loggerf,
		nowFunc:    time.Now,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateTip opens an automatic-capture checkout session. Tips settle in
// one shot; there is no hold phase and nothing for a counterparty to
// accept, so the record only waits on the gateway's confirmation.
func (s *Service) CreateTip(ctx context.Context, req CreateTipRequest) (*domain.Tip, string, error) {
	if req.Amount <= 0 {
		return nil, "", ErrValidation
	}
	if req.ArtistID == req.ClientID {
		return nil, "", ErrValidation
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	acct, err := s.accounts.GetByUserID(ctx, req.ArtistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPayoutsDisabled
		}
		return nil, "", err
	}
	if !acct.CanReceiveTransfers() {
		return nil, "", ErrPayoutsDisabled
	}

	t := &domain.Tip{
		PublicID: uuid.NewString(),
		ClientID: req.ClientID,
		ArtistID: req.ArtistID,
		Amount:   req.Amount,
		Currency: currency,
		Message:  req.Message,
		Status:   domain.TipPending,
	}
	if fields := validator.Validate(t); fields != nil {
		s.loggerf("level=warn msg=tip validation failed fields=%v", fields)
		return nil, "", ErrValidation
	}
	if err := s.tips.Create(ctx, t); err != nil {
		return nil, "", fmt.Errorf("create tip: %w", err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		AmountMinor:        req.Amount,
		Currency:           currency,
		Description:        "Tip",
		DestinationAccount: acct.StripeAccountID,
		Metadata: map[string]string{
			"type":   "tip",
			"tip_id": strconv.FormatInt(t.ID, 10),
		},
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return nil, "", fmt.Errorf("open checkout: %w", err)
	}

	if err := s.tips.AttachCheckoutSession(ctx, t.ID, sess.SessionID, sess.IntentID); err != nil {
		s.loggerf("level=error msg=failed to attach checkout session tip_id=%d session_id=%s err=%v", t.ID, sess.SessionID, err)
		return nil, "", err
	}
	t.StripeSessionID = sess.SessionID
	t.StripeIntentID = sess.IntentID

	return t, sess.SessionURL, nil
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string, actorID int64) (*domain.Tip, error) {
	t, err := s.tips.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actorID != t.ClientID && actorID != t.ArtistID {
		return nil, ErrForbidden
	}
	return t, nil
}
