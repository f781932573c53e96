package models

import "time"

// Escrow hold states. A hold is terminal once released or refunded.
const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// Payout states for the professional's side of a settled booking.
const (
	PayoutStatusNone     = "none"
	PayoutStatusPending  = "pending"
	PayoutStatusReleased = "released"
	// PayoutStatusBlocked is permanent: set when QC is overridden to failed,
	// it survives any later recomputation of the verdict.
	PayoutStatusBlocked = "blocked"
)

// EscrowHold represents funds captured from the candidate and held by the
// payment processor pending the QC outcome. One-to-one with a booking.
type EscrowHold struct {
	BookingID      string `bson:"bookingId" json:"bookingId"`
	ProfessionalID string `bson:"professionalId" json:"professionalId"`
	AmountCents    int64  `bson:"amountCents" json:"amountCents"`
	Status         string `bson:"status" json:"status"`

	HoldRef     string `bson:"holdRef" json:"holdRef"`
	TransferRef string `bson:"transferRef,omitempty" json:"transferRef,omitempty"`
	RefundRef   string `bson:"refundRef,omitempty" json:"refundRef,omitempty"`

	PayoutStatus string `bson:"payoutStatus" json:"payoutStatus"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PayoutProfile is a professional's payable destination at the payment
// processor. A payout cannot be released without one.
type PayoutProfile struct {
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	StripeAccount  string    `bson:"stripeAccount" json:"stripeAccount"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
