package models

import "time"

// Booking lifecycle statuses. Status is monotonic along its branch: once a
// booking leaves requested or accepted it never re-enters them.
const (
	BookingStatusRequested       = "requested"
	BookingStatusAccepted        = "accepted"
	BookingStatusPendingFeedback = "completed_pending_feedback"
	BookingStatusCompleted       = "completed"
	BookingStatusCancelled       = "cancelled"
	BookingStatusRefunded        = "refunded"
	BookingStatusDeclined        = "declined"
)

// Booking represents a scheduled 30-minute call between a candidate and a
// professional, with funds held in escrow until the QC gate settles it.
type Booking struct {
	ID             string `bson:"id" json:"id"`
	CandidateID    string `bson:"candidateId" json:"candidateId"`
	ProfessionalID string `bson:"professionalId" json:"professionalId"`

	StartAt    time.Time `bson:"startAt" json:"startAt"`
	EndAt      time.Time `bson:"endAt" json:"endAt"`
	Timezone   string    `bson:"timezone" json:"timezone"`
	PriceCents int64     `bson:"priceCents" json:"priceCents"`

	Status string `bson:"status" json:"status"`

	// References populated by external collaborators.
	MeetingID      string `bson:"meetingId,omitempty" json:"meetingId,omitempty"`
	MeetingJoinURL string `bson:"meetingJoinUrl,omitempty" json:"meetingJoinUrl,omitempty"`
	EscrowRef      string `bson:"escrowRef,omitempty" json:"escrowRef,omitempty"`

	// Join events are recorded independently; the transition to
	// completed_pending_feedback fires the instant both are non-nil.
	CandidateJoinedAt    *time.Time `bson:"candidateJoinedAt,omitempty" json:"candidateJoinedAt,omitempty"`
	ProfessionalJoinedAt *time.Time `bson:"professionalJoinedAt,omitempty" json:"professionalJoinedAt,omitempty"`

	CancelledBy  string `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelReason string `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsParty reports whether the actor is the named candidate or professional
// on this booking, or an admin.
func (b *Booking) IsParty(actor Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	switch actor.Role {
	case RoleCandidate:
		return actor.ID == b.CandidateID
	case RoleProfessional:
		return actor.ID == b.ProfessionalID
	}
	return false
}
