package tip

type CreateTipRequest struct {
	ArtistID int64  `json:"artist_id" binding:"required" example:"42"`
	Amount   int64  `json:"amount" binding:"required,gt=0" example:"1000"`
	Currency string `json:"currency" example:"usd"`
	Message  string `json:"message,omitempty" example:"Loved the piece, thank you!"`

	// ClientID is taken from the authenticated user, not the payload.
	ClientID int64 `json:"-"`
}

type CreateTipResponse struct {
	TipID       string `json:"tip_id" example:"5d41402a-bc4b-4a76-b971-9d911017c592"`
	CheckoutURL string `json:"checkout_url" example:"https://checkout.stripe.com/c/pay/cs_test_..."`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid request"`
}
