// File: services/payment/stripe.go
package payment

import (
	"context"
	"fmt"

	payeeRepo "monet/database/repository/payee"
	paymentRepo "monet/database/repository/payment"
	"monet/models"
	"monet/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/transfer"
	"go.uber.org/zap"
)

// StripeEscrowGateway implements EscrowPaymentPort on Stripe. Holds are
// manual-capture PaymentIntents; release captures the intent and transfers
// to the professional's connected account; refund voids the hold. The local
// escrow record is consulted first so repeated calls return the recorded
// reference instead of hitting Stripe again.
type StripeEscrowGateway struct {
	Payments paymentRepo.PaymentRepository
	Payees   payeeRepo.PayeeRepository
	Logger   *zap.Logger
}

func NewStripeEscrowGateway(payments paymentRepo.PaymentRepository, payees payeeRepo.PayeeRepository, logger *zap.Logger) *StripeEscrowGateway {
	return &StripeEscrowGateway{Payments: payments, Payees: payees, Logger: logger}
}

func (g *StripeEscrowGateway) Hold(ctx context.Context, bookingID string, amountCents int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.Context = ctx
	// Stripe deduplicates on the idempotency key, so a retried hold for the
	// same booking returns the original intent.
	params.SetIdempotencyKey("hold-" + bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe hold failed for booking %s: %w", bookingID, err)
	}

	g.Logger.Info("escrow hold placed",
		zap.String("bookingId", bookingID),
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amountCents", amountCents))
	return pi.ID, nil
}

func (g *StripeEscrowGateway) Release(ctx context.Context, bookingID string) (string, error) {
	hold, err := g.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return "", utils.NewServiceError(utils.CodePaymentNotHeld, "no escrow hold recorded for booking %s", bookingID)
	}
	if hold.Status == models.EscrowStatusReleased {
		// Idempotent repeat: hand back the original transfer.
		return hold.TransferRef, nil
	}
	if hold.Status != models.EscrowStatusHeld {
		return "", utils.NewServiceError(utils.CodePaymentNotHeld, "escrow for booking %s is %s", bookingID, hold.Status)
	}
	if hold.HoldRef == "" {
		return "", utils.NewServiceError(utils.CodePaymentMismatch, "escrow record for booking %s has no hold reference", bookingID)
	}

	profile, err := g.Payees.GetByProfessionalID(ctx, hold.ProfessionalID)
	if err != nil || profile.StripeAccount == "" {
		return "", utils.NewServiceError(utils.CodeNoPayableAccount, "no payable destination for booking %s", bookingID)
	}

	captureParams := &stripe.PaymentIntentCaptureParams{}
	captureParams.Context = ctx
	captureParams.SetIdempotencyKey("capture-" + bookingID)
	if _, err := paymentintent.Capture(hold.HoldRef, captureParams); err != nil {
		return "", fmt.Errorf("stripe capture failed for booking %s: %w", bookingID, err)
	}

	transferParams := &stripe.TransferParams{
		Amount:      stripe.Int64(hold.AmountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(profile.StripeAccount),
	}
	transferParams.Context = ctx
	transferParams.SetIdempotencyKey("release-" + bookingID)

	tr, err := transfer.New(transferParams)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed for booking %s: %w", bookingID, err)
	}

	g.Logger.Info("escrow released",
		zap.String("bookingId", bookingID),
		zap.String("transfer", tr.ID))
	return tr.ID, nil
}

func (g *StripeEscrowGateway) Refund(ctx context.Context, bookingID string) (string, error) {
	hold, err := g.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return "", utils.NewServiceError(utils.CodePaymentNotHeld, "no escrow hold recorded for booking %s", bookingID)
	}
	if hold.Status == models.EscrowStatusRefunded {
		return hold.RefundRef, nil
	}
	if hold.Status != models.EscrowStatusHeld {
		return "", utils.NewServiceError(utils.CodePaymentNotHeld, "escrow for booking %s is %s", bookingID, hold.Status)
	}
	if hold.HoldRef == "" {
		return "", utils.NewServiceError(utils.CodePaymentMismatch, "escrow record for booking %s has no hold reference", bookingID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(hold.HoldRef),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + bookingID)

	rf, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund failed for booking %s: %w", bookingID, err)
	}

	g.Logger.Info("escrow refunded",
		zap.String("bookingId", bookingID),
		zap.String("refund", rf.ID))
	return rf.ID, nil
}
