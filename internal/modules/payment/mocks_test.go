package payment

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"

	"inkwell/internal/domain"
	"inkwell/internal/modules/notification"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	args := m.Called(ctx, id, sessionID, intentID)
	return args.Error(0)
}

func (m *MockBookingStore) MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) MarkFailed(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) MarkExpired(ctx context.Context, id int64, note string) (bool, error) {
	args := m.Called(ctx, id, note)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockGuestSpotStore struct {
	mock.Mock
}

func (m *MockGuestSpotStore) GetBySessionID(ctx context.Context, sessionID string) (*domain.GuestSpotBooking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestSpotBooking), args.Error(1)
}

func (m *MockGuestSpotStore) GetByIntentID(ctx context.Context, intentID string) (*domain.GuestSpotBooking, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestSpotBooking), args.Error(1)
}

func (m *MockGuestSpotStore) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	args := m.Called(ctx, id, sessionID, intentID)
	return args.Error(0)
}

func (m *MockGuestSpotStore) MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotStore) MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotStore) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotStore) MarkFailed(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotStore) MarkExpired(ctx context.Context, id int64, note string) (bool, error) {
	args := m.Called(ctx, id, note)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotStore) FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.GuestSpotBooking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuestSpotBooking), args.Error(1)
}

type MockTipStore struct {
	mock.Mock
}

func (m *MockTipStore) GetBySessionID(ctx context.Context, sessionID string) (*domain.Tip, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tip), args.Error(1)
}

func (m *MockTipStore) GetByIntentID(ctx context.Context, intentID string) (*domain.Tip, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tip), args.Error(1)
}

func (m *MockTipStore) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	args := m.Called(ctx, id, sessionID, intentID)
	return args.Error(0)
}

func (m *MockTipStore) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockTipStore) MarkFailed(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTipStore) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) UpdateCapabilities(ctx context.Context, stripeAccountID string, charges, payouts, details bool) error {
	args := m.Called(ctx, stripeAccountID, charges, payouts, details)
	return args.Error(0)
}

func (m *MockAccountStore) Upsert(ctx context.Context, a *domain.PayoutAccount) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) DepositAuthorized(ctx context.Context, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome {
	args := m.Called(ctx, payeeID, family, recordID, amount, currency)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotificationSender) PaymentCaptured(ctx context.Context, payerID, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome {
	args := m.Called(ctx, payerID, payeeID, family, recordID, amount, currency)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotificationSender) FundsReleased(ctx context.Context, payerID int64, family, recordID string) notification.Outcome {
	args := m.Called(ctx, payerID, family, recordID)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotificationSender) PaymentFailed(ctx context.Context, payerID int64, family, recordID string) notification.Outcome {
	args := m.Called(ctx, payerID, family, recordID)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotificationSender) HoldExpired(ctx context.Context, payerID int64, family, recordID string) notification.Outcome {
	args := m.Called(ctx, payerID, family, recordID)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotificationSender) TipReceived(ctx context.Context, artistID int64, tipID string, amount int64, currency string) notification.Outcome {
	args := m.Called(ctx, artistID, tipID, amount, currency)
	return args.Get(0).(notification.Outcome)
}

type MockIntentCanceler struct {
	mock.Mock
}

func (m *MockIntentCanceler) CancelPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}
