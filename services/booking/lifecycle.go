// File: services/booking/lifecycle.go
package booking

import (
	"context"
	"fmt"
	"time"

	"monet/models"
	"monet/services/timeslot"
	"monet/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CallDuration is the fixed length of a booked call.
const CallDuration = 30 * time.Minute

func (s *DefaultBookingLifecycleService) RequestBooking(ctx context.Context, actor models.Actor, req BookingRequest) (*models.Booking, error) {
	if actor.Role != models.RoleCandidate {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only a candidate may request a booking")
	}
	if req.ProfessionalID == "" {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "missing professional id")
	}
	if req.PriceCents <= 0 {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "price must be positive")
	}
	if err := timeslot.Validate([]models.TimeSlot{req.Slot}); err != nil {
		return nil, err
	}
	start, end := timeslot.ToAbsoluteRange(req.Slot)
	if end.Sub(start) != CallDuration {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "a call slot must be exactly %s long", CallDuration)
	}
	if !start.After(time.Now().UTC()) {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "cannot book a slot in the past")
	}

	bookingID := uuid.New().String()

	// Escrow hold first: if the processor declines, nothing is persisted.
	holdRef, err := s.Escrow.Hold(ctx, bookingID, req.PriceCents)
	if err != nil {
		return nil, utils.NewServiceError(utils.CodePaymentFailed, "escrow hold failed: %v", err)
	}

	now := time.Now().UTC()
	b := &models.Booking{
		ID:             bookingID,
		CandidateID:    actor.ID,
		ProfessionalID: req.ProfessionalID,
		StartAt:        start,
		EndAt:          end,
		Timezone:       req.Slot.Timezone,
		PriceCents:     req.PriceCents,
		Status:         models.BookingStatusRequested,
		EscrowRef:      holdRef,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	hold := &models.EscrowHold{
		BookingID:      bookingID,
		ProfessionalID: req.ProfessionalID,
		AmountCents:    req.PriceCents,
		Status:         models.EscrowStatusHeld,
		HoldRef:        holdRef,
		PayoutStatus:   models.PayoutStatusNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Payments.InsertHold(ctx, hold); err != nil {
		return nil, fmt.Errorf("failed to persist escrow hold: %w", err)
	}

	s.Logger.Info("booking requested",
		zap.String("bookingId", bookingID),
		zap.String("candidateId", actor.ID),
		zap.String("professionalId", req.ProfessionalID),
		zap.Int64("priceCents", req.PriceCents))
	return b, nil
}

func (s *DefaultBookingLifecycleService) AcceptBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleProfessional || actor.ID != b.ProfessionalID {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only the named professional may accept")
	}
	if b.Status != models.BookingStatusRequested {
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s is %s, not requested", bookingID, b.Status)
	}

	// Re-validate against the candidate's current free set; the set may
	// have been resubmitted since the booking was requested.
	covered, err := s.Availability.FreeCovers(ctx, b.CandidateID, models.TimeSlot{Start: b.StartAt, End: b.EndAt, Timezone: "UTC"})
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, utils.NewServiceError(utils.CodeSlotUnavailable, "slot no longer inside the candidate's free availability")
	}

	m, err := s.Meetings.CreateMeeting(ctx, fmt.Sprintf("Call %s", bookingID), b.StartAt)
	if err != nil {
		if utils.ErrorCode(err) != "" {
			return nil, err
		}
		return nil, utils.NewServiceError(utils.CodeMeetingFailed, "meeting creation failed: %v", err)
	}

	ok, err := s.Repo.TransitionStatus(ctx, bookingID,
		[]string{models.BookingStatusRequested}, models.BookingStatusAccepted,
		map[string]interface{}{
			"meetingId":      m.MeetingID,
			"meetingJoinUrl": m.JoinURL,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}
	if !ok {
		// Lost the race against a cancellation; the meeting reference is
		// never attached, so the caller treats it as not having happened.
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s left requested before acceptance", bookingID)
	}

	b.Status = models.BookingStatusAccepted
	b.MeetingID = m.MeetingID
	b.MeetingJoinURL = m.JoinURL

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleCallReminder(ctx, b); err != nil {
			s.Logger.Warn("failed to schedule call reminder", zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	s.Logger.Info("booking accepted", zap.String("bookingId", bookingID), zap.String("meetingId", m.MeetingID))
	return b, nil
}

func (s *DefaultBookingLifecycleService) DeclineBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleProfessional || actor.ID != b.ProfessionalID {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only the named professional may decline")
	}
	if b.Status != models.BookingStatusRequested {
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s is %s, not requested", bookingID, b.Status)
	}

	return s.refundAndTransition(ctx, b, []string{models.BookingStatusRequested},
		models.BookingStatusDeclined, actor.ID, "declined by professional")
}

func (s *DefaultBookingLifecycleService) CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actor) {
		return nil, utils.NewServiceError(utils.CodeForbidden, "actor has no relation to booking %s", bookingID)
	}
	if b.Status != models.BookingStatusRequested && b.Status != models.BookingStatusAccepted {
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s is %s and cannot be cancelled", bookingID, b.Status)
	}

	// Professionals (and admins) refund unconditionally; a candidate only
	// inside the cancellation window.
	if actor.Role == models.RoleCandidate {
		window := time.Duration(s.CancellationWindowMin) * time.Minute
		if window <= 0 {
			window = 180 * time.Minute
		}
		if time.Until(b.StartAt) < window {
			return nil, utils.NewServiceError(utils.CodeLateCancellation,
				"cancellation requires at least %d minutes notice", int(window.Minutes()))
		}
	}

	if reason == "" {
		reason = "cancelled"
	}
	return s.refundAndTransition(ctx, b,
		[]string{models.BookingStatusRequested, models.BookingStatusAccepted},
		models.BookingStatusCancelled, actor.ID, reason)
}

func (s *DefaultBookingLifecycleService) RefundCompleted(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only an admin may refund a completed booking")
	}
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, utils.NewServiceError(utils.CodeBookingNotCompleted, "booking %s is %s, not completed", bookingID, b.Status)
	}
	if reason == "" {
		reason = "qc failed"
	}
	return s.refundAndTransition(ctx, b, []string{models.BookingStatusCompleted},
		models.BookingStatusRefunded, actor.ID, reason)
}

// refundAndTransition pairs exactly one escrow refund with one status
// change. The external call runs first: if it fails the local state is
// untouched and the operation is retryable; the port's idempotency makes a
// repeated refund a no-op.
func (s *DefaultBookingLifecycleService) refundAndTransition(ctx context.Context, b *models.Booking, from []string, to, byActor, reason string) (*models.Booking, error) {
	refundRef, err := s.Escrow.Refund(ctx, b.ID)
	if err != nil {
		if utils.ErrorCode(err) != "" {
			return nil, err
		}
		return nil, utils.NewServiceError(utils.CodeRefundFailed, "escrow refund failed: %v", err)
	}

	if _, err := s.Payments.MarkRefunded(ctx, b.ID, refundRef); err != nil {
		return nil, fmt.Errorf("failed to record refund: %w", err)
	}

	ok, err := s.Repo.TransitionStatus(ctx, b.ID, from, to, map[string]interface{}{
		"cancelledBy":  byActor,
		"cancelReason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transition booking: %w", err)
	}
	if !ok {
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s changed state concurrently", b.ID)
	}

	b.Status = to
	b.CancelledBy = byActor
	b.CancelReason = reason

	s.Logger.Info("booking refunded",
		zap.String("bookingId", b.ID),
		zap.String("status", to),
		zap.String("refundRef", refundRef))
	return b, nil
}

// RefundForFailedQC moves the booking to refunded after a failed QC
// override. The escrow action itself is performed by the payout
// coordinator in the same logical unit; a booking already settled into a
// terminal state is left alone.
func (s *DefaultBookingLifecycleService) RefundForFailedQC(ctx context.Context, bookingID, reason string) error {
	ok, err := s.Repo.TransitionStatus(ctx, bookingID,
		[]string{models.BookingStatusPendingFeedback, models.BookingStatusCompleted},
		models.BookingStatusRefunded,
		map[string]interface{}{
			"cancelledBy":  "qc",
			"cancelReason": reason,
		})
	if err != nil {
		return fmt.Errorf("failed to refund booking after QC failure: %w", err)
	}
	if !ok {
		s.Logger.Debug("booking already terminal on QC refund", zap.String("bookingId", bookingID))
	}
	return nil
}

func (s *DefaultBookingLifecycleService) CompleteFromQC(ctx context.Context, bookingID string) (bool, error) {
	ok, err := s.Repo.TransitionStatus(ctx, bookingID,
		[]string{models.BookingStatusPendingFeedback}, models.BookingStatusCompleted, nil)
	if err != nil {
		return false, fmt.Errorf("failed to complete booking: %w", err)
	}
	return ok, nil
}

func (s *DefaultBookingLifecycleService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actor) {
		return nil, utils.NewServiceError(utils.CodeForbidden, "actor has no relation to booking %s", bookingID)
	}
	return b, nil
}

func (s *DefaultBookingLifecycleService) ListBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.Repo.ListByParticipant(ctx, actor.ID)
}

func (s *DefaultBookingLifecycleService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewServiceError(utils.CodeBookingNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return b, nil
}
