package domain

type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentPaid       PaymentStatus = "paid"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentFailed     PaymentStatus = "failed"
)

// Terminal reports whether no further payment transition is possible.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentPaid || s == PaymentCancelled || s == PaymentFailed
}

type Reaction string

const (
	ReactionPending  Reaction = "pending"
	ReactionAccepted Reaction = "accepted"
	ReactionRejected Reaction = "rejected"
)

func (r Reaction) Valid() bool {
	return r == ReactionAccepted || r == ReactionRejected
}
