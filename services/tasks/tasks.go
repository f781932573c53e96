package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeCallReminder = "call:reminder"
	TypePayoutSweep  = "payout:sweep"
)

// ReminderPayload is everything the worker needs to announce an upcoming
// call without re-reading the booking.
type ReminderPayload struct {
	BookingID      string    `json:"bookingId"`
	CandidateID    string    `json:"candidateId"`
	ProfessionalID string    `json:"professionalId"`
	StartAt        time.Time `json:"startAt"`
	JoinURL        string    `json:"joinUrl"`
}

func NewCallReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCallReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

func NewPayoutSweepTask() *asynq.Task {
	return asynq.NewTask(TypePayoutSweep, nil)
}
