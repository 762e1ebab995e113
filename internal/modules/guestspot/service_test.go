package guestspot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"

	"inkwell/internal/domain"
	"inkwell/internal/gateway"
	"inkwell/internal/modules/notification"
)

type MockGuestSpotRepo struct {
	mock.Mock
}

func (m *MockGuestSpotRepo) Create(ctx context.Context, g *domain.GuestSpotBooking) error {
	args := m.Called(ctx, g)
	if g != nil {
		g.ID = 555 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockGuestSpotRepo) GetByPublicID(ctx context.Context, publicID string) (*domain.GuestSpotBooking, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestSpotBooking), args.Error(1)
}

func (m *MockGuestSpotRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GuestSpotBooking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuestSpotBooking), args.Error(1)
}

func (m *MockGuestSpotRepo) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	args := m.Called(ctx, id, sessionID, intentID)
	return args.Error(0)
}

func (m *MockGuestSpotRepo) UpdateReaction(ctx context.Context, id int64, reaction domain.Reaction, note string) (bool, error) {
	args := m.Called(ctx, id, reaction, note)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotRepo) MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestSpotRepo) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) GetByUserID(ctx context.Context, userID int64) (*domain.PayoutAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutAccount), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, p gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CheckoutSession), args.Error(1)
}

func (m *MockGateway) CapturePaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *MockGateway) CancelPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PaymentCaptured(ctx context.Context, payerID, payeeID int64, family, recordID string, amount int64, currency string) notification.Outcome {
	args := m.Called(ctx, payerID, payeeID, family, recordID, amount, currency)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotifier) FundsReleased(ctx context.Context, payerID int64, family, recordID string) notification.Outcome {
	args := m.Called(ctx, payerID, family, recordID)
	return args.Get(0).(notification.Outcome)
}

func (m *MockNotifier) ReactionChanged(ctx context.Context, recipientID int64, family, recordID string, reaction domain.Reaction, note string) notification.Outcome {
	args := m.Called(ctx, recipientID, family, recordID, reaction, note)
	return args.Get(0).(notification.Outcome)
}

func newFixture() (*Service, *MockGuestSpotRepo, *MockAccountReader, *MockGateway, *MockNotifier) {
	repo := new(MockGuestSpotRepo)
	accounts := new(MockAccountReader)
	gw := new(MockGateway)
	notifs := new(MockNotifier)
	svc := NewService(repo, accounts, gw, notifs, "https://app.test/success", "https://app.test/cancel", nil)
	return svc, repo, accounts, gw, notifs
}

func TestCreateGuestSpot_TagsMetadataForRouting(t *testing.T) {
	svc, repo, accounts, gw, _ := newFixture()
	start := time.Now().Add(72 * time.Hour)

	accounts.On("GetByUserID", mock.Anything, int64(5)).Return(&domain.PayoutAccount{
		UserID:           5,
		StripeAccountID:  "acct_shop",
		ChargesEnabled:   true,
		DetailsSubmitted: true,
	}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.GuestSpotBooking")).Return(nil)
	gw.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p gateway.CheckoutParams) bool {
		return p.ManualCapture &&
			p.Metadata["type"] == "guest_spot_deposit" &&
			p.Metadata["guest_spot_id"] == "555" &&
			p.DestinationAccount == "acct_shop"
	})).Return(&gateway.CheckoutSession{SessionID: "cs_gs", SessionURL: "https://checkout.test/cs_gs", IntentID: "pi_gs"}, nil)
	repo.On("AttachCheckoutSession", mock.Anything, int64(555), "cs_gs", "pi_gs").Return(nil)

	g, url, err := svc.CreateGuestSpot(context.Background(), CreateGuestSpotRequest{
		ArtistID:      4,
		ShopID:        5,
		StartDate:     start,
		EndDate:       start.Add(5 * 24 * time.Hour),
		DepositAmount: 15000,
		Currency:      "usd",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.test/cs_gs", url)
	assert.Equal(t, domain.PaymentUnpaid, g.PaymentStatus)
	gw.AssertExpectations(t)
}

func TestGuestSpotReaction_ShopRejectReleasesArtistDeposit(t *testing.T) {
	svc, repo, _, gw, notifs := newFixture()

	g := &domain.GuestSpotBooking{
		ID: 20, PublicID: "gs-20", ArtistID: 4, ShopID: 5,
		DepositAmount: 15000, Currency: "usd",
		PaymentStatus:  domain.PaymentAuthorized,
		Reaction:       domain.ReactionPending,
		StripeIntentID: "pi_gs",
	}
	repo.On("GetByPublicID", mock.Anything, "gs-20").Return(g, nil)
	gw.On("CancelPaymentIntent", mock.Anything, "pi_gs").Return(&stripe.PaymentIntent{ID: "pi_gs"}, nil)
	repo.On("MarkCancelled", mock.Anything, int64(20)).Return(true, nil)
	notifs.On("FundsReleased", mock.Anything, int64(4), "guest_spot", "gs-20").Return(notification.SendOK)
	repo.On("UpdateReaction", mock.Anything, int64(20), domain.ReactionRejected, "no free station").Return(true, nil)
	notifs.On("ReactionChanged", mock.Anything, int64(4), "guest_spot", "gs-20", domain.ReactionRejected, "no free station").Return(notification.SendOK)

	_, err := svc.SubmitReaction(context.Background(), "gs-20", 5, domain.ReactionRejected, "no free station")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	gw.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestGuestSpotReaction_GatewayFailureKeepsReactionPending(t *testing.T) {
	svc, repo, _, gw, _ := newFixture()

	g := &domain.GuestSpotBooking{
		ID: 20, PublicID: "gs-20", ArtistID: 4, ShopID: 5,
		PaymentStatus:  domain.PaymentAuthorized,
		Reaction:       domain.ReactionPending,
		StripeIntentID: "pi_gs",
	}
	repo.On("GetByPublicID", mock.Anything, "gs-20").Return(g, nil)
	gw.On("CapturePaymentIntent", mock.Anything, "pi_gs").Return(nil, assert.AnError)

	_, err := svc.SubmitReaction(context.Background(), "gs-20", 5, domain.ReactionAccepted, "")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateReaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
