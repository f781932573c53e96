package models

import "time"

// QC verdict states for a feedback artifact.
const (
	QCStatusMissing = "missing"
	QCStatusPassed  = "passed"
	QCStatusRevise  = "revise"
	QCStatusFailed  = "failed"
)

// Mandatory rating categories. All three must be rated > 0 for QC to pass;
// anything else in CategoryRatings is treated as an extension rating.
var MandatoryCategories = []string{"communication", "expertise", "helpfulness"}

// FeedbackArtifact is the professional's write-up after a call: free text,
// exactly three discrete action items, and per-category star ratings (1-5).
// One-to-one with a booking; immutable once QC passes. Re-submission before
// passing overwrites the artifact and resets QC state.
type FeedbackArtifact struct {
	BookingID      string `bson:"bookingId" json:"bookingId"`
	ProfessionalID string `bson:"professionalId" json:"professionalId"`

	Text            string         `bson:"text" json:"text"`
	ActionItems     []string       `bson:"actionItems" json:"actionItems"`
	CategoryRatings map[string]int `bson:"categoryRatings" json:"categoryRatings"`

	QCStatus string    `bson:"qcStatus" json:"qcStatus"`
	QCReport *QCReport `bson:"qcReport,omitempty" json:"qcReport,omitempty"`

	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// QCReport captures what the gate saw when it evaluated the artifact. The
// clarity score is advisory only and never gates the verdict.
type QCReport struct {
	WordCount       int      `bson:"wordCount" json:"wordCount"`
	ActionItemCount int      `bson:"actionItemCount" json:"actionItemCount"`
	MissingRatings  []string `bson:"missingRatings,omitempty" json:"missingRatings,omitempty"`
	ClarityScore    float64  `bson:"clarityScore" json:"clarityScore"`
	Overridden      bool     `bson:"overridden,omitempty" json:"overridden,omitempty"`
	OverrideReason  string   `bson:"overrideReason,omitempty" json:"overrideReason,omitempty"`

	EvaluatedAt time.Time `bson:"evaluatedAt" json:"evaluatedAt"`
}
