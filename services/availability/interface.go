// File: services/availability/interface.go
package availability

import (
	"context"
	"time"

	availabilityRepo "monet/database/repository/availability"
	"monet/models"
	"monet/services/calendar"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityService owns a user's declared free/busy interval sets.
type AvailabilityService interface {
	// SubmitAvailability normalizes a raw, possibly overlapping slot list
	// and replaces the user's stored set for that busy flag wholesale.
	SubmitAvailability(ctx context.Context, userID string, busy bool, slots []models.TimeSlot) (*models.AvailabilitySet, error)

	// GetAvailability returns the stored set converted to the requested
	// display timezone and split into selection-granularity chunks.
	GetAvailability(ctx context.Context, userID string, busy bool, displayTz string, granularity time.Duration) ([]models.TimeSlot, error)

	// GetBusyWindow merges the stored busy set with the best-effort
	// third-party calendar read over the given window.
	GetBusyWindow(ctx context.Context, userID string, window models.TimeSlot) ([]models.TimeSlot, error)

	// FreeCovers re-reads the stored free set and reports whether the slot
	// still falls inside it. Used at acceptance time, never from cache.
	FreeCovers(ctx context.Context, userID string, slot models.TimeSlot) (bool, error)
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Repo     availabilityRepo.AvailabilityRepository
	Calendar calendar.CalendarReadPort
	Cache    *redis.Client
	Logger   *zap.Logger
}
