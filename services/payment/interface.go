// File: services/payment/interface.go
package payment

import "context"

// EscrowPaymentPort is the processor-facing side of the escrow flow. All
// three operations are idempotent per bookingID: repeating a release or
// refund after success returns the prior reference, never a second
// transfer.
type EscrowPaymentPort interface {
	Hold(ctx context.Context, bookingID string, amountCents int64) (string, error)
	Release(ctx context.Context, bookingID string) (string, error)
	Refund(ctx context.Context, bookingID string) (string, error)
}
