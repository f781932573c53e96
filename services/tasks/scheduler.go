package tasks

import (
	"context"
	"fmt"
	"time"

	"monet/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderLeadTime is how long before the call start the reminder fires.
const ReminderLeadTime = 15 * time.Minute

// AsynqScheduler enqueues delayed tasks on the shared queue. It implements
// booking.ReminderScheduler.
type AsynqScheduler struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func (s *AsynqScheduler) ScheduleCallReminder(_ context.Context, b *models.Booking) error {
	fireAt := b.StartAt.Add(-ReminderLeadTime)
	if !fireAt.After(time.Now().UTC()) {
		// Accepted too close to the start; nothing useful to announce.
		return nil
	}

	task, opts, err := NewCallReminderTask(ReminderPayload{
		BookingID:      b.ID,
		CandidateID:    b.CandidateID,
		ProfessionalID: b.ProfessionalID,
		StartAt:        b.StartAt,
		JoinURL:        b.MeetingJoinURL,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}

	info, err := s.Client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	s.Logger.Info("call reminder scheduled",
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
