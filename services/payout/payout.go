// File: services/payout/payout.go
package payout

import (
	"context"
	"fmt"

	"monet/models"
	"monet/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (c *Coordinator) MarkPayoutPending(ctx context.Context, bookingID string) error {
	// CAS from none only: a blocked payout stays blocked and a pending or
	// released one is left alone, so repeated verdict settlements are safe.
	ok, err := c.Payments.SetPayoutStatus(ctx, bookingID,
		[]string{models.PayoutStatusNone}, models.PayoutStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark payout pending: %w", err)
	}
	if ok {
		c.Logger.Info("payout marked pending", zap.String("bookingId", bookingID))
	}
	return nil
}

func (c *Coordinator) RefundAndBlock(ctx context.Context, bookingID, reason string) error {
	// Refund first: if the processor call fails nothing local changes and
	// the override is retryable. The port makes a repeated refund a no-op.
	refundRef, err := c.Escrow.Refund(ctx, bookingID)
	if err != nil {
		if utils.ErrorCode(err) != "" {
			return err
		}
		return utils.NewServiceError(utils.CodeRefundFailed, "escrow refund failed: %v", err)
	}

	if _, err := c.Payments.MarkRefunded(ctx, bookingID, refundRef); err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}

	// The block is permanent: no later transition re-enables the payout.
	if _, err := c.Payments.SetPayoutStatus(ctx, bookingID,
		[]string{models.PayoutStatusNone, models.PayoutStatusPending}, models.PayoutStatusBlocked); err != nil {
		return fmt.Errorf("failed to block payout: %w", err)
	}

	c.Logger.Warn("payout blocked and escrow refunded",
		zap.String("bookingId", bookingID),
		zap.String("reason", reason),
		zap.String("refundRef", refundRef))
	return nil
}

func (c *Coordinator) RequestPayout(ctx context.Context, actor models.Actor, bookingID string) (*models.EscrowHold, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only an admin may release a payout")
	}
	return c.release(ctx, bookingID)
}

func (c *Coordinator) SweepPending(ctx context.Context) (int, error) {
	holds, err := c.Payments.ListPendingPayouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending payouts: %w", err)
	}

	released := 0
	for _, hold := range holds {
		if _, err := c.release(ctx, hold.BookingID); err != nil {
			c.Logger.Warn("sweep skipped payout",
				zap.String("bookingId", hold.BookingID), zap.Error(err))
			continue
		}
		released++
	}

	c.Logger.Info("payout sweep finished",
		zap.Int("pending", len(holds)), zap.Int("released", released))
	return released, nil
}

// release checks every precondition with its own named error, then pairs
// the escrow release with the local settlement.
func (c *Coordinator) release(ctx context.Context, bookingID string) (*models.EscrowHold, error) {
	b, err := c.Bookings.GetByID(ctx, bookingID)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewServiceError(utils.CodeBookingNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, utils.NewServiceError(utils.CodeBookingNotCompleted, "booking %s is %s, not completed", bookingID, b.Status)
	}

	artifact, err := c.Feedback.GetByBookingID(ctx, bookingID)
	if err != nil || artifact.QCStatus != models.QCStatusPassed {
		return nil, utils.NewServiceError(utils.CodeQCNotPassed, "feedback for booking %s has not passed QC", bookingID)
	}

	hold, err := c.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, utils.NewServiceError(utils.CodePaymentNotHeld, "no escrow hold recorded for booking %s", bookingID)
	}
	if hold.PayoutStatus == models.PayoutStatusBlocked {
		// Permanent block from a failed override wins over a later pass.
		return nil, utils.NewServiceError(utils.CodeQCNotPassed, "payout for booking %s is blocked", bookingID)
	}
	if hold.Status != models.EscrowStatusHeld {
		return nil, utils.NewServiceError(utils.CodePaymentNotHeld, "escrow for booking %s is %s", bookingID, hold.Status)
	}

	profile, err := c.Payees.GetByProfessionalID(ctx, b.ProfessionalID)
	if err != nil || profile.StripeAccount == "" {
		return nil, utils.NewServiceError(utils.CodeNoPayableAccount,
			"professional %s has no payable destination configured", b.ProfessionalID)
	}

	transferRef, err := c.Escrow.Release(ctx, bookingID)
	if err != nil {
		if utils.ErrorCode(err) != "" {
			return nil, err
		}
		return nil, utils.NewServiceError(utils.CodeReleaseFailed, "escrow release failed: %v", err)
	}

	if _, err := c.Payments.MarkReleased(ctx, bookingID, transferRef); err != nil {
		return nil, fmt.Errorf("failed to record release: %w", err)
	}
	if _, err := c.Payments.SetPayoutStatus(ctx, bookingID,
		[]string{models.PayoutStatusNone, models.PayoutStatusPending}, models.PayoutStatusReleased); err != nil {
		return nil, fmt.Errorf("failed to settle payout: %w", err)
	}

	hold.Status = models.EscrowStatusReleased
	hold.TransferRef = transferRef
	hold.PayoutStatus = models.PayoutStatusReleased

	c.Logger.Info("payout released",
		zap.String("bookingId", bookingID),
		zap.String("transferRef", transferRef))
	return hold, nil
}
