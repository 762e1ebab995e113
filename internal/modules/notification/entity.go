package notification

import (
	"encoding/json"
	"time"
)

// Kind identifies what a notification is about.
type Kind string

const (
	// Payment lifecycle
	KindDepositAuthorized Kind = "deposit_authorized" // payee: a new paid request is waiting
	KindPaymentCaptured   Kind = "payment_captured"   // both parties: deposit captured
	KindFundsReleased     Kind = "funds_released"     // payer: hold released
	KindPaymentFailed     Kind = "payment_failed"     // payer: capture failed

	// Reaction lifecycle
	KindReactionAccepted Kind = "reaction_accepted"
	KindReactionRejected Kind = "reaction_rejected"

	// Sweeper
	KindHoldExpired Kind = "hold_expired"

	// Tips
	KindTipReceived Kind = "tip_received"
)

// Notification is a persisted in-app notification.
type Notification struct {
	ID        int64           `json:"id" gorm:"column:id;primaryKey"`
	UserID    int64           `json:"user_id" gorm:"column:user_id;index"`
	Kind      Kind            `json:"kind" gorm:"column:kind"`
	Title     string          `json:"title" gorm:"column:title"`
	Body      string          `json:"body,omitempty" gorm:"column:body;type:text"`
	Data      json.RawMessage `json:"data,omitempty" gorm:"column:data"`
	IsRead    bool            `json:"is_read" gorm:"column:is_read;index"`
	CreatedAt time.Time       `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Outcome is the result of a best-effort send. Failures are logged by
// the service and never propagated to the caller.
type Outcome int

const (
	SendOK Outcome = iota
	SendSuppressed
	SendFailed
)

func (o Outcome) String() string {
	switch o {
	case SendOK:
		return "ok"
	case SendSuppressed:
		return "suppressed"
	default:
		return "failed"
	}
}
