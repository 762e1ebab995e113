package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrMissingSecret = errors.New("webhook secret is not configured")
	ErrNoIntent      = errors.New("checkout session has no payment intent")
)

// Config holds the Stripe credentials. TipWebhookSecret is optional; when
// empty the tip endpoint verifies against WebhookSecret.
type Config struct {
	SecretKey        string
	WebhookSecret    string
	TipWebhookSecret string
}

// Client wraps the Stripe SDK behind the small surface the payment
// subsystem needs: session creation, capture, cancel, account retrieval
// and webhook signature verification.
type Client struct {
	api *client.API
	cfg Config
}

func NewClient(cfg Config) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Client{api: api, cfg: cfg}
}

// CheckoutParams describes a gateway-hosted payment collection flow.
type CheckoutParams struct {
	// AmountMinor is the charge amount in the currency's minor units.
	AmountMinor int64
	Currency    string
	Description string

	// DestinationAccount is the connected account receiving the funds.
	DestinationAccount string

	// ManualCapture holds the funds instead of charging immediately
	// (the two-phase deposit flow).
	ManualCapture bool

	// Metadata is attached to both the session and the payment intent so
	// webhook events can be routed back to the owning record family.
	Metadata map[string]string

	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the correlation data persisted on the record.
type CheckoutSession struct {
	SessionID  string
	SessionURL string
	IntentID   string
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Metadata:   p.Metadata,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: p.Metadata,
		},
	}
	params.Context = ctx
	if p.ManualCapture {
		params.PaymentIntentData.CaptureMethod = stripe.String("manual")
	}
	if p.DestinationAccount != "" {
		params.PaymentIntentData.TransferData = &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
			Destination: stripe.String(p.DestinationAccount),
		}
	}
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	out := &CheckoutSession{SessionID: sess.ID, SessionURL: sess.URL}
	if sess.PaymentIntent != nil {
		out.IntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

func (c *Client) CapturePaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Capture(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("capture intent %s: %w", intentID, err)
	}
	return pi, nil
}

func (c *Client) CancelPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Cancel(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("cancel intent %s: %w", intentID, err)
	}
	return pi, nil
}

func (c *Client) RetrieveAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := c.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve account %s: %w", accountID, err)
	}
	return acct, nil
}

// VerifyEvent authenticates a raw webhook payload. The payload must be
// the exact bytes Stripe sent; re-serializing a parsed body breaks the
// HMAC check.
func (c *Client) VerifyEvent(payload []byte, sigHeader string, tip bool) (stripe.Event, error) {
	secret := c.cfg.WebhookSecret
	if tip && c.cfg.TipWebhookSecret != "" {
		secret = c.cfg.TipWebhookSecret
	}
	if secret == "" {
		return stripe.Event{}, ErrMissingSecret
	}
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
