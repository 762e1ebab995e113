package domain

import "time"

// GuestSpotBooking is a marketplace booking where a visiting artist
// reserves working days at a shop. The artist pays the deposit, the
// shop receives it.
type GuestSpotBooking struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	PublicID string `json:"public_id" gorm:"column:public_id;uniqueIndex"`

	ArtistID int64 `json:"artist_id" gorm:"column:artist_id;index" validate:"required"`
	ShopID   int64 `json:"shop_id" gorm:"column:shop_id;index" validate:"required"`

	StartDate time.Time `json:"start_date" gorm:"column:start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" gorm:"column:end_date" validate:"required"`

	DepositAmount int64  `json:"deposit_amount" gorm:"column:deposit_amount" validate:"gte=0"`
	Currency      string `json:"currency" gorm:"column:currency"`

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"column:payment_status;index"`
	Reaction      Reaction      `json:"reaction" gorm:"column:reaction"`
	RejectionNote string        `json:"rejection_note,omitempty" gorm:"column:rejection_note;type:text"`

	StripeSessionID string `json:"-" gorm:"column:stripe_session_id;index"`
	StripeIntentID  string `json:"-" gorm:"column:stripe_intent_id;index"`

	AuthorizedAt *time.Time `json:"authorized_at,omitempty" gorm:"column:authorized_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (GuestSpotBooking) TableName() string { return "guest_spot_bookings" }

func (g *GuestSpotBooking) IsCounterparty(userID int64) bool {
	return userID == g.ArtistID || userID == g.ShopID
}

func (g *GuestSpotBooking) PayerID() int64 { return g.ArtistID }

func (g *GuestSpotBooking) PayeeID() int64 { return g.ShopID }
