// File: services/payout/interface.go
package payout

import (
	"context"

	feedbackRepo "monet/database/repository/feedback"
	payeeRepo "monet/database/repository/payee"
	paymentRepo "monet/database/repository/payment"
	"monet/models"
	"monet/services/payment"

	"go.uber.org/zap"
)

// PayoutService reacts to QC verdicts and releases or refunds held funds.
// Marking a payout pending never moves money; the actual transfer happens
// through RequestPayout (admin) or the scheduled sweep.
type PayoutService interface {
	MarkPayoutPending(ctx context.Context, bookingID string) error
	RefundAndBlock(ctx context.Context, bookingID, reason string) error
	RequestPayout(ctx context.Context, actor models.Actor, bookingID string) (*models.EscrowHold, error)
	SweepPending(ctx context.Context) (int, error)
}

// BookingReader is the slice of the booking repository the coordinator needs.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// Coordinator implements PayoutService.
type Coordinator struct {
	Payments paymentRepo.PaymentRepository
	Payees   payeeRepo.PayeeRepository
	Feedback feedbackRepo.FeedbackRepository
	Bookings BookingReader
	Escrow   payment.EscrowPaymentPort
	Logger   *zap.Logger
}
