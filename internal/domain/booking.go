package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a direct session booking between a client and an artist.
// The client pays the deposit, the artist receives it.
type Booking struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	PublicID string `json:"public_id" gorm:"column:public_id;uniqueIndex"`

	ClientID int64 `json:"client_id" gorm:"column:client_id;index" validate:"required"`
	ArtistID int64 `json:"artist_id" gorm:"column:artist_id;index" validate:"required"`

	StartTime time.Time `json:"start_time" gorm:"column:start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" gorm:"column:end_time" validate:"required"`

	// DepositAmount is in the currency's minor units and is fixed at creation.
	DepositAmount int64  `json:"deposit_amount" gorm:"column:deposit_amount" validate:"gte=0"`
	Currency      string `json:"currency" gorm:"column:currency"`

	Status        BookingStatus `json:"status" gorm:"column:status"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"column:payment_status;index"`
	Reaction      Reaction      `json:"reaction" gorm:"column:reaction"`
	RejectionNote string        `json:"rejection_note,omitempty" gorm:"column:rejection_note;type:text"`

	StripeSessionID string `json:"-" gorm:"column:stripe_session_id;index"`
	StripeIntentID  string `json:"-" gorm:"column:stripe_intent_id;index"`

	AuthorizedAt *time.Time `json:"authorized_at,omitempty" gorm:"column:authorized_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	Notes     string    `json:"notes,omitempty" gorm:"column:notes;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// IsCounterparty reports whether userID is one of the two parties on the booking.
func (b *Booking) IsCounterparty(userID int64) bool {
	return userID == b.ClientID || userID == b.ArtistID
}

// PayerID returns the party whose funds are held.
func (b *Booking) PayerID() int64 { return b.ClientID }

// PayeeID returns the party that receives the deposit on capture.
func (b *Booking) PayeeID() int64 { return b.ArtistID }
