package models

import "time"

// TimeSlot is a half-open absolute interval [Start, End) tagged with a
// display timezone. The instants are authoritative; Timezone only controls
// how the interval is rendered back to a caller.
type TimeSlot struct {
	Start    time.Time `bson:"start" json:"start"`
	End      time.Time `bson:"end" json:"end"`
	Timezone string    `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/New_York"
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps reports whether two slots share any instant.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Contains reports whether other lies fully inside s.
func (s TimeSlot) Contains(other TimeSlot) bool {
	return !other.Start.Before(s.Start) && !other.End.After(s.End)
}

// AvailabilitySet is one user's stored interval set for a single busy flag.
// Within a set no two slots overlap or touch; adjacent slots are merged on
// write. The whole set is replaced wholesale on resubmission.
type AvailabilitySet struct {
	UserID    string     `bson:"userId" json:"userId"`
	Busy      bool       `bson:"busy" json:"busy"`
	Slots     []TimeSlot `bson:"slots" json:"slots"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}
