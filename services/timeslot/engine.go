// File: services/timeslot/engine.go
package timeslot

import (
	"sort"
	"time"

	"monet/models"
	"monet/utils"
)

// DefaultGranularity is the bookable call length.
const DefaultGranularity = 30 * time.Minute

// Validate rejects any slot where end <= start and any unknown IANA
// timezone identifier. A slot with an empty timezone is treated as UTC.
func Validate(slots []models.TimeSlot) error {
	for i, s := range slots {
		if !s.End.After(s.Start) {
			return utils.NewServiceError(utils.CodeInvalidPayload,
				"slot %d: end (%s) must be after start (%s)", i, s.End.Format(time.RFC3339), s.Start.Format(time.RFC3339))
		}
		if s.Timezone != "" {
			if _, err := time.LoadLocation(s.Timezone); err != nil {
				return utils.NewServiceError(utils.CodeInvalidTimezone, "slot %d: unknown timezone %q", i, s.Timezone)
			}
		}
	}
	return nil
}

// Merge sorts slots by start ascending and coalesces every touching or
// overlapping pair into one slot spanning min(start)..max(end). The output
// is sorted, pairwise disjoint, and a fixed point under re-application.
func Merge(slots []models.TimeSlot) []models.TimeSlot {
	if len(slots) == 0 {
		return nil
	}

	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []models.TimeSlot{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		// next.start <= prev.end covers both overlapping and touching slots.
		if !s.Start.After(last.End) {
			if s.End.After(last.End) {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Split emits consecutive granularity-sized slots covering each input slot.
// A trailing chunk shorter than the granularity is dropped, so a slot that
// is not an exact multiple loses its incomplete remainder.
func Split(slots []models.TimeSlot, granularity time.Duration) []models.TimeSlot {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	var out []models.TimeSlot
	for _, s := range slots {
		for cur := s.Start; !cur.Add(granularity).After(s.End); cur = cur.Add(granularity) {
			out = append(out, models.TimeSlot{
				Start:    cur,
				End:      cur.Add(granularity),
				Timezone: s.Timezone,
			})
		}
	}
	return out
}

// ConvertTimezone reinterprets each slot's instants in the target
// timezone's wall clock. The absolute instants are untouched; only the
// display tag and the Location of the times change.
func ConvertTimezone(slots []models.TimeSlot, targetTz string) ([]models.TimeSlot, error) {
	loc, err := time.LoadLocation(targetTz)
	if err != nil {
		return nil, utils.NewServiceError(utils.CodeInvalidTimezone, "unknown timezone %q", targetTz)
	}

	out := make([]models.TimeSlot, len(slots))
	for i, s := range slots {
		out[i] = models.TimeSlot{
			Start:    s.Start.In(loc),
			End:      s.End.In(loc),
			Timezone: targetTz,
		}
	}
	return out, nil
}

// ToAbsoluteRange projects a slot to absolute UTC instants for persistence,
// independent of its display timezone.
func ToAbsoluteRange(s models.TimeSlot) (time.Time, time.Time) {
	return s.Start.UTC(), s.End.UTC()
}

// Canonicalize validates, projects to UTC, and merges a raw proposed slot
// list into the stored form.
func Canonicalize(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if err := Validate(slots); err != nil {
		return nil, err
	}
	utcSlots := make([]models.TimeSlot, len(slots))
	for i, s := range slots {
		start, end := ToAbsoluteRange(s)
		utcSlots[i] = models.TimeSlot{Start: start, End: end, Timezone: "UTC"}
	}
	return Merge(utcSlots), nil
}

// Covers reports whether the candidate interval lies fully inside one of
// the stored slots. Stored slots are disjoint, so one container suffices.
func Covers(stored []models.TimeSlot, want models.TimeSlot) bool {
	for _, s := range stored {
		if s.Contains(want) {
			return true
		}
	}
	return false
}
