package booking

import "time"

type CreateBookingRequest struct {
	ArtistID      int64     `json:"artist_id" binding:"required" example:"42"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	DepositAmount int64     `json:"deposit_amount" validate:"gte=0" example:"5000"`
	Currency      string    `json:"currency" example:"usd"`
	Notes         string    `json:"notes,omitempty"`

	// ClientID is taken from the authenticated user, not the payload.
	ClientID int64 `json:"-"`
}

type CreateBookingResponse struct {
	BookingID   string `json:"booking_id" example:"8f14e45f-ceea-4e8b-8d2f-1b6a9a4c7a31"`
	CheckoutURL string `json:"checkout_url,omitempty" example:"https://checkout.stripe.com/c/pay/cs_test_..."`
	Status      string `json:"status" example:"pending"`
}

type ReactionRequest struct {
	Reaction string `json:"reaction" binding:"required" example:"accepted"`
	Note     string `json:"note,omitempty" example:"Fully booked that week"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid request"`
}
