package booking

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
	bookings bookingRepo
	accounts accountReader
	gateway  checkoutGateway
	notifs   notificationSender
	loggerf  func(format string, args ...interface{})
	nowFunc  func() time.Time

	successURL string
	cancelURL  string
}

func NewService(bookings bookingRepo, accounts accountReader, gw checkoutGateway, notifs notificationSender, successURL, cancelURL string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:   bookings,
		accounts:   accounts,
		gateway:    gw,
		notifs:     notifs,
		loggerf:    loggerf,
		nowFunc:    time.Now,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateBooking creates the record and, when a deposit is required,
// opens a manual-capture checkout session against the artist's connected
// account. Amount and currency are fixed here and never editable again.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, string, error) {
	if !req.EndTime.After(req.StartTime) || req.StartTime.Before(s.nowFunc()) {
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
		destination = acct.StripeAccountID
	}

	b := &domain.Booking{
		PublicID:      uuid.NewString(),
		ClientID:      req.ClientID,
		ArtistID:      req.ArtistID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DepositAmount: req.DepositAmount,
		Currency:      currency,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		Reaction:      domain.ReactionPending,
		Notes:         req.Notes,
	}
	if fields := validator.Validate(b); fields != nil {
		s.loggerf("level=warn msg=booking validation failed fields=%v", fields)
		return nil, "", ErrValidation
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, "", fmt.Errorf("create booking: %w", err)
	}

	if req.DepositAmount == 0 {
		return b, "", nil
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		AmountMinor:        req.DepositAmount,
		Currency:           currency,
		Description:        "Booking deposit",
		DestinationAccount: destination,
		ManualCapture:      true,
		Metadata: map[string]string{
			"booking_id": strconv.FormatInt(b.ID, 10),
		},
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return nil, "", fmt.Errorf("open checkout: %w", err)
	}

	if err := s.bookings.AttachCheckoutSession(ctx, b.ID, sess.SessionID, sess.IntentID); err != nil {
		s.loggerf("level=error msg=failed to attach checkout session booking_id=%d session_id=%s err=%v", b.ID, sess.SessionID, err)
		return nil, "", err
	}
	b.StripeSessionID = sess.SessionID
	b.StripeIntentID = sess.IntentID

	return b, sess.SessionURL, nil
}

// SubmitReaction applies a counterparty's accept/reject decision. When a
// deposit is on hold the gateway call happens first: the reaction is
// only final once the money side effect succeeded.
func (s *Service) SubmitReaction(ctx context.Context, publicID string, actorID int64, reaction domain.Reaction, note string) (*domain.Booking, error) {
	if !reaction.Valid() {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.IsCounterparty(actorID) {
		return nil, ErrForbidden
	}
	if b.Reaction == reaction {
		// Duplicate submission of the same decision is a no-op.
		return b, nil
	}
	if b.Reaction != domain.ReactionPending {
		return nil, ErrAlreadyDecided
	}

	// Gateway call only from a live hold. Any other payment state (no
	// deposit required, already settled) accepts the reaction as-is.
	if b.PaymentStatus == domain.PaymentAuthorized && b.StripeIntentID != "" {
		switch reaction {
		case domain.ReactionAccepted:
			if _, err := s.gateway.CapturePaymentIntent(ctx, b.StripeIntentID); err != nil {
				return nil, fmt.Errorf("capture deposit: %w", err)
			}
			changed, err := s.bookings.MarkPaid(ctx, b.ID, s.nowFunc())
			if err != nil {
				return nil, err
			}
			if changed {
				s.notifs.PaymentCaptured(ctx, b.PayerID(), b.PayeeID(), "booking", b.PublicID, b.DepositAmount, b.Currency)
			}
		case domain.ReactionRejected:
			if _, err := s.gateway.CancelPaymentIntent(ctx, b.StripeIntentID); err != nil {
				return nil, fmt.Errorf("release deposit: %w", err)
			}
			changed, err := s.bookings.MarkCancelled(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			if changed {
				s.notifs.FundsReleased(ctx, b.PayerID(), "booking", b.PublicID)
			}
		}
	}

	decided, err := s.bookings.UpdateReaction(ctx, b.ID, reaction, note)
	if err != nil {
		return nil, err
	}
	if !decided {
		// Lost the race to another decision (e.g. the sweeper).
		return nil, ErrAlreadyDecided
	}

	status := domain.BookingConfirmed
	if reaction == domain.ReactionRejected {
		status = domain.BookingCancelled
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, status); err != nil {
		s.loggerf("level=error msg=failed to update booking status booking_id=%d err=%v", b.ID, err)
	}

	recipient := b.ClientID
	if actorID == b.ClientID {
		recipient = b.ArtistID
	}
	s.notifs.ReactionChanged(ctx, recipient, "booking", b.PublicID, reaction, note)

	return s.bookings.GetByPublicID(ctx, publicID)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.IsCounterparty(actorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}
