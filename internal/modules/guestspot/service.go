package guestspot

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

type Service struct {
	spots    guestSpotRepo
	accounts accountReader
	gateway  checkoutGateway
	notifs   notificationSender
	loggerf  func(format string, args ...interface{})
	nowFunc  func() time.Time

	successURL string
	cancelURL  string
}

func NewService(spots guestSpotRepo, accounts accountReader, gw checkoutGateway, notifs notificationSender, successURL, cancelURL string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		spots:      spots,
		accounts:   accounts,
		gateway:    gw,
		notifs:     notifs,
		loggerf:    loggerf,
		nowFunc:    time.Now,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateGuestSpot reserves working days at a shop. The visiting artist
// is the payer here; the deposit lands on the shop's connected account.
func (s *Service) CreateGuestSpot(ctx context.Context, req CreateGuestSpotRequest) (*domain.GuestSpotBooking, string, error) {
	if !req.EndDate.After(req.StartDate) || req.StartDate.Before(s.nowFunc()) {
		return nil, "", ErrValidation
	}
	if req.DepositAmount < 0 {
		return nil, "", ErrValidation
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var destination string
	if req.DepositAmount > 0 {
		acct, err := s.accounts.GetByUserID(ctx, req.ShopID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrPayoutsDisabled
			}
			return nil, "", err
		}
		if !acct.CanReceiveTransfers() {
			return nil, "", ErrPayoutsDisabled
		}
		destination = acct.StripeAccountID
	}

	g := &domain.GuestSpotBooking{
		PublicID:      uuid.NewString(),
		ArtistID:      req.ArtistID,
		ShopID:        req.ShopID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		DepositAmount: req.DepositAmount,
		Currency:      currency,
		PaymentStatus: domain.PaymentUnpaid,
		Reaction:      domain.ReactionPending,
	}
	if fields := validator.Validate(g); fields != nil {
		s.loggerf("level=warn msg=guest spot validation failed fields=%v", fields)
		return nil, "", ErrValidation
	}
	if err := s.spots.Create(ctx, g); err != nil {
		return nil, "", fmt.Errorf("create guest spot: %w", err)
	}

	if req.DepositAmount == 0 {
		return g, "", nil
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		AmountMinor:        req.DepositAmount,
		Currency:           currency,
		Description:        "Guest spot deposit",
		DestinationAccount: destination,
		ManualCapture:      true,
		Metadata: map[string]string{
			"type":          "guest_spot_deposit",
			"guest_spot_id": strconv.FormatInt(g.ID, 10),
		},
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return nil, "", fmt.Errorf("open checkout: %w", err)
	}

	if err := s.spots.AttachCheckoutSession(ctx, g.ID, sess.SessionID, sess.IntentID); err != nil {
		s.loggerf("level=error msg=failed to attach checkout session guest_spot_id=%d session_id=%s err=%v", g.ID, sess.SessionID, err)
		return nil, "", err
	}
	g.StripeSessionID = sess.SessionID
	g.StripeIntentID = sess.IntentID

	return g, sess.SessionURL, nil
}

// SubmitReaction applies the shop's (or artist's) accept/reject
// decision, settling the deposit hold before the reaction is persisted.
func (s *Service) SubmitReaction(ctx context.Context, publicID string, actorID int64, reaction domain.Reaction, note string) (*domain.GuestSpotBooking, error) {
	if !reaction.Valid() {
		return nil, ErrValidation
	}

	g, err := s.spots.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !g.IsCounterparty(actorID) {
		return nil, ErrForbidden
	}
	if g.Reaction == reaction {
		return g, nil
	}
	if g.Reaction != domain.ReactionPending {
		return nil, ErrAlreadyDecided
	}

	if g.PaymentStatus == domain.PaymentAuthorized && g.StripeIntentID != "" {
		switch reaction {
		case domain.ReactionAccepted:
			if _, err := s.gateway.CapturePaymentIntent(ctx, g.StripeIntentID); err != nil {
				return nil, fmt.Errorf("capture deposit: %w", err)
			}
			changed, err := s.spots.MarkPaid(ctx, g.ID, s.nowFunc())
			if err != nil {
				return nil, err
			}
			if changed {
				s.notifs.PaymentCaptured(ctx, g.PayerID(), g.PayeeID(), "guest_spot", g.PublicID, g.DepositAmount, g.Currency)
			}
		case domain.ReactionRejected:
			if _, err := s.gateway.CancelPaymentIntent(ctx, g.StripeIntentID); err != nil {
				return nil, fmt.Errorf("release deposit: %w", err)
			}
			changed, err := s.spots.MarkCancelled(ctx, g.ID)
			if err != nil {
				return nil, err
			}
			if changed {
				s.notifs.FundsReleased(ctx, g.PayerID(), "guest_spot", g.PublicID)
			}
		}
	}

	decided, err := s.spots.UpdateReaction(ctx, g.ID, reaction, note)
	if err != nil {
		return nil, err
	}
	if !decided {
		return nil, ErrAlreadyDecided
	}

	recipient := g.ArtistID
	if actorID == g.ArtistID {
		recipient = g.ShopID
	}
	s.notifs.ReactionChanged(ctx, recipient, "guest_spot", g.PublicID, reaction, note)

	return s.spots.GetByPublicID(ctx, publicID)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string, actorID int64) (*domain.GuestSpotBooking, error) {
	g, err := s.spots.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !g.IsCounterparty(actorID) {
		return nil, ErrForbidden
	}
	return g, nil
}

func (s *Service) GetMyGuestSpots(ctx context.Context, userID int64, limit, offset int) ([]domain.GuestSpotBooking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.spots.ListByUser(ctx, userID, limit, offset)
}
