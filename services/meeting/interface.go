// File: services/meeting/interface.go
package meeting

import (
	"context"
	"time"
)

// Meeting is the provider-issued video call reference stored on a booking.
type Meeting struct {
	MeetingID string `json:"meetingId"`
	JoinURL   string `json:"joinUrl"`
}

// MeetingPort creates a video meeting for an accepted booking.
type MeetingPort interface {
	CreateMeeting(ctx context.Context, title string, startAt time.Time) (*Meeting, error)
}
