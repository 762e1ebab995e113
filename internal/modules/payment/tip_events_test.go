package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"

	"inkwell/internal/domain"
	"inkwell/internal/modules/notification"
)

func TestTipCheckoutCompleted_PaidCompletesImmediately(t *testing.T) {
	store := new(MockTipStore)
	notifs := new(MockNotificationSender)
	events := NewTipEvents(store, notifs, nil)

	tip := &domain.Tip{ID: 5, PublicID: "tip-5", ArtistID: 2, Amount: 1000, Currency: "usd", Status: domain.TipPending}
	store.On("GetBySessionID", mock.Anything, "cs_t1").Return(tip, nil)
	store.On("AttachCheckoutSession", mock.Anything, int64(5), "cs_t1", "pi_t1").Return(nil)
	store.On("MarkCompleted", mock.Anything, int64(5), mock.Anything).Return(true, nil)
	notifs.On("TipReceived", mock.Anything, int64(2), "tip-5", int64(1000), "usd").Return(notification.SendOK)

	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_t1",
		"payment_intent": map[string]any{"id": "pi_t1"},
		"payment_status": "paid",
		"metadata":       map[string]string{"type": "tip", "tip_id": "5"},
	})

	err := events.handleCheckoutCompleted(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestTipCheckoutCompleted_UnpaidStaysPending(t *testing.T) {
	store := new(MockTipStore)
	notifs := new(MockNotificationSender)
	events := NewTipEvents(store, notifs, nil)

	tip := &domain.Tip{ID: 5, PublicID: "tip-5", Status: domain.TipPending}
	store.On("GetBySessionID", mock.Anything, "cs_t1").Return(tip, nil)
	store.On("AttachCheckoutSession", mock.Anything, int64(5), "cs_t1", "pi_t1").Return(nil)

	// Bank-transfer style checkout: session completes before money moves.
	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_t1",
		"payment_intent": map[string]any{"id": "pi_t1"},
		"payment_status": "unpaid",
	})

	err := events.handleCheckoutCompleted(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "TipReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTipAsyncPaymentSucceeded_Completes(t *testing.T) {
	store := new(MockTipStore)
	notifs := new(MockNotificationSender)
	events := NewTipEvents(store, notifs, nil)

	tip := &domain.Tip{ID: 5, PublicID: "tip-5", ArtistID: 2, Amount: 1000, Currency: "usd", Status: domain.TipPending}
	store.On("GetBySessionID", mock.Anything, "cs_t1").Return(tip, nil)
	store.On("MarkCompleted", mock.Anything, int64(5), mock.Anything).Return(true, nil)
	notifs.On("TipReceived", mock.Anything, int64(2), "tip-5", int64(1000), "usd").Return(notification.SendOK)

	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded, map[string]any{"id": "cs_t1"})

	err := events.handleAsyncPaymentSucceeded(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestTipDuplicateCompletion_NotifiesOnce(t *testing.T) {
	store := new(MockTipStore)
	notifs := new(MockNotificationSender)
	events := NewTipEvents(store, notifs, nil)

	tip := &domain.Tip{ID: 5, PublicID: "tip-5", ArtistID: 2, Status: domain.TipCompleted}
	store.On("GetByIntentID", mock.Anything, "pi_t1").Return(tip, nil)
	store.On("MarkCompleted", mock.Anything, int64(5), mock.Anything).Return(false, nil)

	ev := sessionEvent(t, stripe.EventTypePaymentIntentSucceeded, map[string]any{"id": "pi_t1"})

	err := events.handlePaymentSucceeded(context.Background(), ev)

	assert.NoError(t, err)
	notifs.AssertNotCalled(t, "TipReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTipAsyncPaymentFailed_MarksFailed(t *testing.T) {
	store := new(MockTipStore)
	notifs := new(MockNotificationSender)
	events := NewTipEvents(store, notifs, nil)

	tip := &domain.Tip{ID: 5, Status: domain.TipPending}
	store.On("GetBySessionID", mock.Anything, "cs_t1").Return(tip, nil)
	store.On("MarkFailed", mock.Anything, int64(5)).Return(true, nil)

	ev := sessionEvent(t, stripe.EventTypeCheckoutSessionAsyncPaymentFailed, map[string]any{"id": "cs_t1"})

	err := events.handleAsyncPaymentFailed(context.Background(), ev)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
