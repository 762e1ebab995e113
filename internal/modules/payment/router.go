package payment

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v82"
)

// Family discriminates which record family a gateway event belongs to.
// Booking is the original flow and does not self-tag in metadata, so it
// is the default.
type Family string

const (
	FamilyBooking   Family = "booking"
	FamilyGuestSpot Family = "guest_spot"
	FamilyTip       Family = "tip"
)

type routeKey struct {
	Type   stripe.EventType
	Family Family
}

type eventHandler func(ctx context.Context, ev stripe.Event) error

// Router dispatches verified gateway events to exactly one family
// handler. The (event type x family) table is built once at startup;
// unmatched combinations are acknowledged no-ops so the gateway does not
// retry events this system will never act on.
type Router struct {
	routes   map[routeKey]eventHandler
	accounts *AccountEvents
	loggerf  func(format string, args ...interface{})
}

func NewRouter(bookings *BookingEvents, guestSpots *GuestSpotEvents, tips *TipEvents, accounts *AccountEvents, loggerf func(format string, args ...interface{})) *Router {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	r := &Router{
		routes:   make(map[routeKey]eventHandler),
		accounts: accounts,
		loggerf:  loggerf,
	}

	r.routes[routeKey{stripe.EventTypeCheckoutSessionCompleted, FamilyBooking}] = bookings.handleCheckoutCompleted
	r.routes[routeKey{stripe.EventTypePaymentIntentAmountCapturableUpdated, FamilyBooking}] = bookings.handleAmountCapturableUpdated
	r.routes[routeKey{stripe.EventTypePaymentIntentSucceeded, FamilyBooking}] = bookings.handlePaymentSucceeded
	r.routes[routeKey{stripe.EventTypePaymentIntentPaymentFailed, FamilyBooking}] = bookings.handlePaymentFailed
	r.routes[routeKey{stripe.EventTypePaymentIntentCanceled, FamilyBooking}] = bookings.handlePaymentCanceled

	r.routes[routeKey{stripe.EventTypeCheckoutSessionCompleted, FamilyGuestSpot}] = guestSpots.handleCheckoutCompleted
	r.routes[routeKey{stripe.EventTypePaymentIntentAmountCapturableUpdated, FamilyGuestSpot}] = guestSpots.handleAmountCapturableUpdated
	r.routes[routeKey{stripe.EventTypePaymentIntentSucceeded, FamilyGuestSpot}] = guestSpots.handlePaymentSucceeded
	r.routes[routeKey{stripe.EventTypePaymentIntentPaymentFailed, FamilyGuestSpot}] = guestSpots.handlePaymentFailed
	r.routes[routeKey{stripe.EventTypePaymentIntentCanceled, FamilyGuestSpot}] = guestSpots.handlePaymentCanceled

	r.routes[routeKey{stripe.EventTypeCheckoutSessionCompleted, FamilyTip}] = tips.handleCheckoutCompleted
	r.routes[routeKey{stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded, FamilyTip}] = tips.handleAsyncPaymentSucceeded
	r.routes[routeKey{stripe.EventTypeCheckoutSessionAsyncPaymentFailed, FamilyTip}] = tips.handleAsyncPaymentFailed
	r.routes[routeKey{stripe.EventTypePaymentIntentSucceeded, FamilyTip}] = tips.handlePaymentSucceeded
	r.routes[routeKey{stripe.EventTypePaymentIntentPaymentFailed, FamilyTip}] = tips.handlePaymentFailed
	r.routes[routeKey{stripe.EventTypePaymentIntentCanceled, FamilyTip}] = tips.handlePaymentCanceled
	// Tips have no pre-authorization phase; absorb explicitly.
	r.routes[routeKey{stripe.EventTypePaymentIntentAmountCapturableUpdated, FamilyTip}] = tips.handleAmountCapturableUpdated

	return r
}

// Dispatch routes one verified event. A nil return means the event is
// acknowledged, including deliberate no-ops.
func (r *Router) Dispatch(ctx context.Context, ev stripe.Event) error {
	// account.updated is family-agnostic: it carries no record metadata
	// and updates payout capabilities on the counterparty's account.
	if ev.Type == stripe.EventTypeAccountUpdated {
		return r.accounts.handleAccountUpdated(ctx, ev)
	}

	fam := resolveFamily(ev)
	h, ok := r.routes[routeKey{ev.Type, fam}]
	if !ok {
		r.loggerf("level=info msg=unhandled webhook event event_id=%s type=%s family=%s", ev.ID, ev.Type, fam)
		return nil
	}
	return h(ctx, ev)
}

// resolveFamily inspects the metadata attached to the session/intent at
// creation time. Bookings do not self-tag and are the default.
func resolveFamily(ev stripe.Event) Family {
	md := eventMetadata(ev)
	switch {
	case md["type"] == "tip" || md["tip_id"] != "":
		return FamilyTip
	case md["type"] == "guest_spot_deposit" || md["guest_spot_id"] != "":
		return FamilyGuestSpot
	default:
		return FamilyBooking
	}
}

func eventMetadata(ev stripe.Event) map[string]string {
	var obj struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(ev.Data.Raw, &obj); err != nil {
		return nil
	}
	return obj.Metadata
}
