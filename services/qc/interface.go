// File: services/qc/interface.go
package qc

import (
	"context"

	feedbackRepo "monet/database/repository/feedback"
	"monet/models"

	"go.uber.org/zap"
)

// Config carries the rubric knobs. It is built once from AppConfig and
// passed into the gate explicitly; nothing here reads process-wide state.
type Config struct {
	MinWordCount        int
	RequiredActionItems int
	// StrictEvaluator switches on the alternate evaluator, which
	// additionally demands substantial, non-duplicate action items.
	StrictEvaluator bool
}

// FeedbackInput is the professional's submission payload.
type FeedbackInput struct {
	Text            string         `json:"text"`
	ActionItems     []string       `json:"actionItems"`
	CategoryRatings map[string]int `json:"categoryRatings"`
}

// QCService evaluates feedback artifacts and settles their verdicts.
type QCService interface {
	SubmitFeedback(ctx context.Context, actor models.Actor, bookingID string, input FeedbackInput) (*models.FeedbackArtifact, error)
	RunQC(ctx context.Context, bookingID string) (*models.FeedbackArtifact, error)
	OverrideQC(ctx context.Context, actor models.Actor, bookingID, status, reason string) (*models.FeedbackArtifact, error)
}

// BookingReader is the slice of the booking repository the gate needs.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// Lifecycle is the slice of the booking lifecycle the gate drives.
type Lifecycle interface {
	CompleteFromQC(ctx context.Context, bookingID string) (bool, error)
	RefundForFailedQC(ctx context.Context, bookingID, reason string) error
}

// PayoutNotifier reacts to settled verdicts.
type PayoutNotifier interface {
	MarkPayoutPending(ctx context.Context, bookingID string) error
	RefundAndBlock(ctx context.Context, bookingID, reason string) error
}

// Gate implements QCService.
type Gate struct {
	Cfg       Config
	Feedback  feedbackRepo.FeedbackRepository
	Bookings  BookingReader
	Lifecycle Lifecycle
	Payouts   PayoutNotifier
	Logger    *zap.Logger
}
