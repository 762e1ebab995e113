package domain

import "time"

// PayoutAccount mirrors the capability flags of a user's connected
// gateway account. Updated from "account.updated" webhook events and
// checked before creating a checkout session against the account.
type PayoutAccount struct {
	ID              int64  `json:"id" gorm:"column:id;primaryKey"`
	UserID          int64  `json:"user_id" gorm:"column:user_id;uniqueIndex"`
	StripeAccountID string `json:"-" gorm:"column:stripe_account_id;uniqueIndex"`

	ChargesEnabled   bool `json:"charges_enabled" gorm:"column:charges_enabled"`
	PayoutsEnabled   bool `json:"payouts_enabled" gorm:"column:payouts_enabled"`
	DetailsSubmitted bool `json:"details_submitted" gorm:"column:details_submitted"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (PayoutAccount) TableName() string { return "payout_accounts" }

// CanReceiveTransfers reports whether checkout sessions may route funds
// to this account.
func (a *PayoutAccount) CanReceiveTransfers() bool {
	return a.ChargesEnabled && a.DetailsSubmitted
}
