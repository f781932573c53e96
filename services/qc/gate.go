// File: services/qc/gate.go
package qc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"monet/models"
	"monet/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (g *Gate) SubmitFeedback(ctx context.Context, actor models.Actor, bookingID string, input FeedbackInput) (*models.FeedbackArtifact, error) {
	b, err := g.Bookings.GetByID(ctx, bookingID)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewServiceError(utils.CodeBookingNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if actor.Role != models.RoleProfessional || actor.ID != b.ProfessionalID {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only the named professional may submit feedback")
	}
	if b.Status != models.BookingStatusPendingFeedback && b.Status != models.BookingStatusCompleted {
		return nil, utils.NewServiceError(utils.CodeBookingNotCompleted, "booking %s is %s; the call has not finished", bookingID, b.Status)
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "feedback text is required")
	}
	for cat, stars := range input.CategoryRatings {
		if stars < 0 || stars > 5 {
			return nil, utils.NewServiceError(utils.CodeInvalidPayload, "rating for %q must be between 0 and 5", cat)
		}
	}

	now := time.Now().UTC()
	artifact := &models.FeedbackArtifact{
		BookingID:       bookingID,
		ProfessionalID:  actor.ID,
		Text:            input.Text,
		ActionItems:     input.ActionItems,
		CategoryRatings: input.CategoryRatings,
		QCStatus:        models.QCStatusMissing,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}

	// Re-submission before a pass overwrites the artifact and resets QC
	// state; once passed the artifact is immutable.
	ok, err := g.Feedback.Upsert(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	if !ok {
		return nil, utils.NewServiceError(utils.CodeReviewAlreadyExists, "feedback for booking %s already passed QC", bookingID)
	}

	g.Logger.Info("feedback submitted", zap.String("bookingId", bookingID))
	return g.RunQC(ctx, bookingID)
}

func (g *Gate) RunQC(ctx context.Context, bookingID string) (*models.FeedbackArtifact, error) {
	artifact, err := g.Feedback.GetByBookingID(ctx, bookingID)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewServiceError(utils.CodeFeedbackMissing, "no feedback submitted for booking %s", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	verdict, report := g.Evaluate(artifact)

	// Recompute over anything except a prior pass: a passed artifact is
	// settled, and re-running QC on it must stay a no-op.
	applied, err := g.Feedback.SetQCResult(ctx, bookingID,
		[]string{models.QCStatusMissing, models.QCStatusRevise, models.QCStatusFailed},
		verdict, report)
	if err != nil {
		return nil, fmt.Errorf("failed to record QC verdict: %w", err)
	}
	if !applied {
		// The artifact already passed; report the stored verdict instead of
		// the recomputed one.
		stored, err := g.Feedback.GetByBookingID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload feedback: %w", err)
		}
		g.Logger.Info("qc recheck skipped settled artifact", zap.String("bookingId", bookingID))
		return stored, nil
	}

	artifact.QCStatus = verdict
	artifact.QCReport = report

	if verdict == models.QCStatusPassed {
		if err := g.settlePass(ctx, bookingID); err != nil {
			return nil, err
		}
	}

	g.Logger.Info("qc evaluated",
		zap.String("bookingId", bookingID),
		zap.String("verdict", verdict))
	return artifact, nil
}

func (g *Gate) OverrideQC(ctx context.Context, actor models.Actor, bookingID, status, reason string) (*models.FeedbackArtifact, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewServiceError(utils.CodeForbidden, "only an admin may override a QC verdict")
	}
	switch status {
	case models.QCStatusPassed, models.QCStatusRevise, models.QCStatusFailed:
	default:
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "cannot override QC verdict to %q", status)
	}

	artifact, err := g.Feedback.GetByBookingID(ctx, bookingID)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewServiceError(utils.CodeFeedbackMissing, "no feedback submitted for booking %s", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	report := &models.QCReport{
		WordCount:       wordCount(artifact.Text),
		ActionItemCount: nonEmptyCount(artifact.ActionItems),
		Overridden:      true,
		OverrideReason:  reason,
		EvaluatedAt:     time.Now().UTC(),
	}

	applied, err := g.Feedback.SetQCResult(ctx, bookingID,
		[]string{models.QCStatusMissing, models.QCStatusRevise, models.QCStatusFailed, models.QCStatusPassed},
		status, report)
	if err != nil {
		return nil, fmt.Errorf("failed to record QC override: %w", err)
	}

	artifact.QCStatus = status
	artifact.QCReport = report

	if applied {
		switch status {
		case models.QCStatusPassed:
			if err := g.settlePass(ctx, bookingID); err != nil {
				return nil, err
			}
		case models.QCStatusFailed:
			// Auto-refund plus a permanent payout block; the block survives
			// any later recomputation of the verdict.
			if err := g.Payouts.RefundAndBlock(ctx, bookingID, reason); err != nil {
				return nil, err
			}
			if err := g.Lifecycle.RefundForFailedQC(ctx, bookingID, reason); err != nil {
				return nil, err
			}
		}
	}

	g.Logger.Warn("qc verdict overridden",
		zap.String("bookingId", bookingID),
		zap.String("status", status),
		zap.String("admin", actor.ID),
		zap.String("reason", reason))
	return artifact, nil
}

// settlePass drives the downstream transition exactly once: the booking CAS
// picks a single winner under concurrent rechecks, and only the winner
// marks the payout pending.
func (g *Gate) settlePass(ctx context.Context, bookingID string) error {
	won, err := g.Lifecycle.CompleteFromQC(ctx, bookingID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}
	if err := g.Payouts.MarkPayoutPending(ctx, bookingID); err != nil {
		return err
	}
	return nil
}

// Evaluate applies the rubric: pass needs the minimum word count, exactly
// the required number of non-empty action items, and all mandatory category
// ratings above zero. The clarity score is derived and advisory only.
func (g *Gate) Evaluate(artifact *models.FeedbackArtifact) (string, *models.QCReport) {
	words := wordCount(artifact.Text)
	actions := nonEmptyCount(artifact.ActionItems)

	var missing []string
	for _, cat := range models.MandatoryCategories {
		if artifact.CategoryRatings[cat] <= 0 {
			missing = append(missing, cat)
		}
	}

	report := &models.QCReport{
		WordCount:       words,
		ActionItemCount: actions,
		MissingRatings:  missing,
		ClarityScore:    clarityScore(words),
		EvaluatedAt:     time.Now().UTC(),
	}

	passed := words >= g.Cfg.MinWordCount &&
		actions == g.Cfg.RequiredActionItems &&
		len(artifact.ActionItems) == g.Cfg.RequiredActionItems &&
		len(missing) == 0

	if passed && g.Cfg.StrictEvaluator {
		passed = strictActionItems(artifact.ActionItems)
	}

	if passed {
		return models.QCStatusPassed, report
	}
	return models.QCStatusRevise, report
}

// strictActionItems is the alternate evaluator: each action item must carry
// at least five words and duplicates are rejected.
func strictActionItems(items []string) bool {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		norm := strings.ToLower(strings.TrimSpace(item))
		if len(strings.Fields(norm)) < 5 || seen[norm] {
			return false
		}
		seen[norm] = true
	}
	return true
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func nonEmptyCount(items []string) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}

// clarityScore grows monotonically with word count and saturates at 1.
func clarityScore(words int) float64 {
	return float64(words) / float64(words+300)
}
