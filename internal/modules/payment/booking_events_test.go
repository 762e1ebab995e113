package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"inkwell/internal/domain"
	"inkwell/internal/modules/notification"
)

func sessionEvent(t *testing.T, evType stripe.EventType, payload any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}
	return stripe.Event{
		ID:   "evt_test_1",
		Type: evType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestBookingCheckoutCompleted_AttachesIntent(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{ID: 10, PublicID: "pub-10", PaymentStatus: domain.PaymentUnpaid}
	store.On("GetBySessionID", mock.Anything, "cs_1").Return(b, nil)
	store.On("AttachCheckoutSession", mock.Anything, int64(10), "cs_1", "pi_1").Return(nil)

	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_1",
		"payment_intent": map[string]any{"id": "pi_1"},
	})

	err := events.handleCheckoutCompleted(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestBookingCheckoutCompleted_IntentMismatchKeepsStoredValue(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{ID: 10, StripeIntentID: "pi_on_file"}
	store.On("GetBySessionID", mock.Anything, "cs_1").Return(b, nil)

	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_1",
		"payment_intent": map[string]any{"id": "pi_other"},
	})

	err := events.handleCheckoutCompleted(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertNotCalled(t, "AttachCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingAmountCapturable_Authorizes(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{
		ID: 10, PublicID: "pub-10", ClientID: 1, ArtistID: 2,
		DepositAmount: 5000, Currency: "usd",
		PaymentStatus: domain.PaymentUnpaid,
	}
	store.On("GetByIntentID", mock.Anything, "pi_1").Return(b, nil)
	store.On("MarkAuthorized", mock.Anything, int64(10), mock.Anything).Return(true, nil)
	notifs.On("DepositAuthorized", mock.Anything, int64(2), "booking", "pub-10", int64(5000), "usd").Return(notification.SendOK)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentAmountCapturableUpdated, map[string]any{"id": "pi_1"})

	err := events.handleAmountCapturableUpdated(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestBookingAmountCapturable_DuplicateDeliveryIsNoOp(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{ID: 10, PaymentStatus: domain.PaymentAuthorized}
	store.On("GetByIntentID", mock.Anything, "pi_1").Return(b, nil)
	store.On("MarkAuthorized", mock.Anything, int64(10), mock.Anything).Return(false, nil)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentAmountCapturableUpdated, map[string]any{"id": "pi_1"})

	err := events.handleAmountCapturableUpdated(context.Background(), ev)

	assert.NoError(t, err)
	notifs.AssertNotCalled(t, "DepositAuthorized",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingPaymentSucceeded_MarksPaid(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{
		ID: 10, PublicID: "pub-10", ClientID: 1, ArtistID: 2,
		DepositAmount: 5000, Currency: "usd",
		PaymentStatus: domain.PaymentAuthorized,
	}
	store.On("GetByIntentID", mock.Anything, "pi_1").Return(b, nil)
	store.On("MarkPaid", mock.Anything, int64(10), mock.Anything).Return(true, nil)
	notifs.On("PaymentCaptured", mock.Anything, int64(1), int64(2), "booking", "pub-10", int64(5000), "usd").Return(notification.SendOK)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentSucceeded, map[string]any{"id": "pi_1"})

	err := events.handlePaymentSucceeded(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestBookingPaymentCanceled_ReleasesFunds(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	b := &domain.Booking{ID: 10, PublicID: "pub-10", ClientID: 1, ArtistID: 2, PaymentStatus: domain.PaymentAuthorized}
	store.On("GetByIntentID", mock.Anything, "pi_1").Return(b, nil)
	store.On("MarkCancelled", mock.Anything, int64(10)).Return(true, nil)
	notifs.On("FundsReleased", mock.Anything, int64(1), "booking", "pub-10").Return(notification.SendOK)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentCanceled, map[string]any{"id": "pi_1"})

	err := events.handlePaymentCanceled(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestBookingUnknownIntent_AcknowledgedWithoutWrite(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	store.On("GetByIntentID", mock.Anything, "pi_ghost").Return(nil, gorm.ErrRecordNotFound)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentSucceeded, map[string]any{"id": "pi_ghost"})

	err := events.handlePaymentSucceeded(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

// Out-of-order settlement: payment_intent.succeeded arrives before the
// booking ever saw amount_capturable_updated. The paid transition only
// fires from authorized, so the late authorize event must not regress it.
func TestBookingOutOfOrder_LateAuthorizeDoesNotRegress(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)
	events := NewBookingEvents(store, notifs, nil)

	paid := &domain.Booking{ID: 10, PublicID: "pub-10", PaymentStatus: domain.PaymentPaid}
	store.On("GetByIntentID", mock.Anything, "pi_1").Return(paid, nil)
	store.On("MarkAuthorized", mock.Anything, int64(10), mock.Anything).Return(false, nil)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentAmountCapturableUpdated, map[string]any{"id": "pi_1"})

	err := events.handleAmountCapturableUpdated(context.Background(), ev)

	assert.NoError(t, err)
	notifs.AssertNotCalled(t, "DepositAuthorized",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
