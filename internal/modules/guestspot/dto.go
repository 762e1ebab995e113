package guestspot

import "time"

type CreateGuestSpotRequest struct {
	ShopID        int64     `json:"shop_id" binding:"required" example:"7"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	DepositAmount int64     `json:"deposit_amount" validate:"gte=0" example:"15000"`
	Currency      string    `json:"currency" example:"usd"`

	// ArtistID is taken from the authenticated user, not the payload.
	ArtistID int64 `json:"-"`
}

type CreateGuestSpotResponse struct {
	GuestSpotID string `json:"guest_spot_id" example:"2c1743a3-91aa-4a38-9f5e-0d1b6a9a4c7a"`
	CheckoutURL string `json:"checkout_url,omitempty" example:"https://checkout.stripe.com/c/pay/cs_test_..."`
}

type ReactionRequest struct {
	Reaction string `json:"reaction" binding:"required" example:"rejected"`
	Note     string `json:"note,omitempty" example:"No free station those dates"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid request"`
}
