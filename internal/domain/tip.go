package domain

import "time"

type TipStatus string

const (
	TipPending   TipStatus = "pending"
	TipCompleted TipStatus = "completed"
	TipFailed    TipStatus = "failed"
	TipCancelled TipStatus = "cancelled"
)

func (s TipStatus) Terminal() bool {
	return s == TipCompleted || s == TipFailed || s == TipCancelled
}

// Tip is a one-shot payment from a client to an artist. There is no
// pre-authorization phase and no reaction gate: the record moves from
// pending to a terminal status purely on gateway events.
type Tip struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	PublicID string `json:"public_id" gorm:"column:public_id;uniqueIndex"`

	ClientID int64 `json:"client_id" gorm:"column:client_id;index" validate:"required"`
	ArtistID int64 `json:"artist_id" gorm:"column:artist_id;index" validate:"required"`

	Amount   int64  `json:"amount" gorm:"column:amount" validate:"required,gt=0"`
	Currency string `json:"currency" gorm:"column:currency"`
	Message  string `json:"message,omitempty" gorm:"column:message;type:text"`

	Status TipStatus `json:"status" gorm:"column:status;index"`

	StripeSessionID string `json:"-" gorm:"column:stripe_session_id;index"`
	StripeIntentID  string `json:"-" gorm:"column:stripe_intent_id;index"`

	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Tip) TableName() string { return "tips" }
