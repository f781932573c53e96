// File: services/availability/availability.go
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"monet/models"
	"monet/services/calendar"
	"monet/services/timeslot"
	"monet/utils"

	"go.uber.org/zap"
)

const readCacheTTL = 2 * time.Minute

func cacheKey(userID string, busy bool) string {
	return fmt.Sprintf("avail:%s:%t", userID, busy)
}

func (s *DefaultAvailabilityService) SubmitAvailability(ctx context.Context, userID string, busy bool, slots []models.TimeSlot) (*models.AvailabilitySet, error) {
	if userID == "" {
		return nil, utils.NewServiceError(utils.CodeInvalidPayload, "missing user id")
	}

	canonical, err := timeslot.Canonicalize(slots)
	if err != nil {
		return nil, err
	}

	set := models.AvailabilitySet{
		UserID:    userID,
		Busy:      busy,
		Slots:     canonical,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Repo.ReplaceSet(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to replace availability set: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Del(ctx, cacheKey(userID, busy)).Err(); err != nil {
			s.Logger.Warn("failed to invalidate availability cache",
				zap.String("userId", userID), zap.Error(err))
		}
	}

	s.Logger.Info("availability replaced",
		zap.String("userId", userID),
		zap.Bool("busy", busy),
		zap.Int("slots", len(canonical)))
	return &set, nil
}

func (s *DefaultAvailabilityService) GetAvailability(ctx context.Context, userID string, busy bool, displayTz string, granularity time.Duration) ([]models.TimeSlot, error) {
	stored, err := s.getStored(ctx, userID, busy)
	if err != nil {
		return nil, err
	}

	if displayTz == "" {
		displayTz = "UTC"
	}
	converted, err := timeslot.ConvertTimezone(stored, displayTz)
	if err != nil {
		return nil, err
	}
	return timeslot.Split(converted, granularity), nil
}

func (s *DefaultAvailabilityService) GetBusyWindow(ctx context.Context, userID string, window models.TimeSlot) ([]models.TimeSlot, error) {
	stored, err := s.getStored(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	external, err := calendar.BestEffortBusy(ctx, s.Calendar, userID, window, s.Logger)
	if err != nil {
		// NOT_AUTHENTICATED is the one calendar failure that propagates.
		return nil, err
	}

	var inWindow []models.TimeSlot
	for _, slot := range append(stored, external...) {
		if slot.Overlaps(window) {
			inWindow = append(inWindow, slot)
		}
	}
	return timeslot.Merge(inWindow), nil
}

func (s *DefaultAvailabilityService) FreeCovers(ctx context.Context, userID string, slot models.TimeSlot) (bool, error) {
	// Read the repository directly: acceptance must see the candidate's
	// current set, not a cached copy.
	set, err := s.Repo.GetSet(ctx, userID, false)
	if err != nil {
		return false, fmt.Errorf("failed to load free availability: %w", err)
	}
	start, end := timeslot.ToAbsoluteRange(slot)
	return timeslot.Covers(set.Slots, models.TimeSlot{Start: start, End: end, Timezone: "UTC"}), nil
}

func (s *DefaultAvailabilityService) getStored(ctx context.Context, userID string, busy bool) ([]models.TimeSlot, error) {
	key := cacheKey(userID, busy)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var slots []models.TimeSlot
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
		}
	}

	set, err := s.Repo.GetSet(ctx, userID, busy)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability set: %w", err)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(set.Slots); err == nil {
			if err := s.Cache.Set(ctx, key, data, readCacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache availability set",
					zap.String("userId", userID), zap.Error(err))
			}
		}
	}
	return set.Slots, nil
}
