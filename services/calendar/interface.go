// File: services/calendar/interface.go
package calendar

import (
	"context"
	"errors"

	"monet/models"
)

// ErrNotAuthenticated signals that the user's calendar link has expired and
// needs a re-auth; callers surface it distinctly instead of degrading.
var ErrNotAuthenticated = errors.New("calendar: not authenticated")

// CalendarReadPort reads a user's busy intervals from a linked third-party
// calendar. Reads are best-effort: correctness of the core never depends on
// them.
type CalendarReadPort interface {
	GetBusyIntervals(ctx context.Context, userID string, window models.TimeSlot) ([]models.TimeSlot, error)
}
