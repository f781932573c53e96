// File: services/booking/join.go
package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "monet/database/repository/booking"
	"monet/models"
	"monet/utils"

	"go.uber.org/zap"
)

// RecordJoin records one party's join timestamp and, the instant both are
// present, transitions the booking to completed_pending_feedback. Both
// steps are conditional updates, so two near-simultaneous joins record both
// timestamps and exactly one caller performs the downstream transition.
func (s *DefaultBookingLifecycleService) RecordJoin(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(actor) {
		return nil, utils.NewServiceError(utils.CodeForbidden, "actor has no relation to booking %s", bookingID)
	}

	var field string
	switch actor.Role {
	case models.RoleCandidate:
		field = bookingRepo.FieldCandidateJoinedAt
	case models.RoleProfessional:
		field = bookingRepo.FieldProfessionalJoinedAt
	default:
		return nil, utils.NewServiceError(utils.CodeForbidden, "only call participants record joins")
	}

	if b.Status != models.BookingStatusAccepted && b.Status != models.BookingStatusPendingFeedback {
		return nil, utils.NewServiceError(utils.CodeBookingConflict, "booking %s is %s; joins are only recorded on accepted calls", bookingID, b.Status)
	}

	// A repeated join for the same party matches nothing; that is fine.
	if _, err := s.Repo.SetJoinedAt(ctx, bookingID, field, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record join: %w", err)
	}

	won, err := s.Repo.CompleteIfBothJoined(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check call completion: %w", err)
	}
	if won {
		s.Logger.Info("call completed, awaiting feedback", zap.String("bookingId", bookingID))
	}

	return s.loadBooking(ctx, bookingID)
}
