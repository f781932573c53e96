package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "monet/database/repository/booking"
	"monet/models"
	"monet/services/meeting"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeBookingRepo mirrors the Mongo repository's conditional-update
// semantics behind a mutex so the CAS behavior under concurrency is real.
type fakeBookingRepo struct {
	mu          sync.Mutex
	bookings    map[string]*models.Booking
	completions int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Insert(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByParticipant(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CandidateID == userID || b.ProfessionalID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id string, from []string, to string, set map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, f := range from {
		if b.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	for k, v := range set {
		switch k {
		case "meetingId":
			b.MeetingID = v.(string)
		case "meetingJoinUrl":
			b.MeetingJoinURL = v.(string)
		case "cancelledBy":
			b.CancelledBy = v.(string)
		case "cancelReason":
			b.CancelReason = v.(string)
		}
	}
	return true, nil
}

func (r *fakeBookingRepo) SetJoinedAt(_ context.Context, id, field string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	if b.Status != models.BookingStatusAccepted && b.Status != models.BookingStatusPendingFeedback {
		return false, nil
	}
	switch field {
	case bookingRepo.FieldCandidateJoinedAt:
		if b.CandidateJoinedAt != nil {
			return false, nil
		}
		b.CandidateJoinedAt = &at
	case bookingRepo.FieldProfessionalJoinedAt:
		if b.ProfessionalJoinedAt != nil {
			return false, nil
		}
		b.ProfessionalJoinedAt = &at
	}
	return true, nil
}

func (r *fakeBookingRepo) CompleteIfBothJoined(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	if b.Status != models.BookingStatusAccepted || b.CandidateJoinedAt == nil || b.ProfessionalJoinedAt == nil {
		return false, nil
	}
	b.Status = models.BookingStatusPendingFeedback
	r.completions++
	return true, nil
}

type fakePaymentRepo struct {
	mu    sync.Mutex
	holds map[string]*models.EscrowHold
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{holds: make(map[string]*models.EscrowHold)}
}

func (r *fakePaymentRepo) InsertHold(_ context.Context, hold *models.EscrowHold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *hold
	r.holds[hold.BookingID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByBookingID(_ context.Context, bookingID string) (*models.EscrowHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[bookingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *h
	return &cp, nil
}

func (r *fakePaymentRepo) MarkReleased(_ context.Context, bookingID, transferRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[bookingID]
	if !ok || h.Status != models.EscrowStatusHeld {
		return false, nil
	}
	h.Status = models.EscrowStatusReleased
	h.TransferRef = transferRef
	return true, nil
}

func (r *fakePaymentRepo) MarkRefunded(_ context.Context, bookingID, refundRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[bookingID]
	if !ok || h.Status != models.EscrowStatusHeld {
		return false, nil
	}
	h.Status = models.EscrowStatusRefunded
	h.RefundRef = refundRef
	return true, nil
}

func (r *fakePaymentRepo) SetPayoutStatus(_ context.Context, bookingID string, from []string, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[bookingID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if h.PayoutStatus == f {
			h.PayoutStatus = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) ListPendingPayouts(_ context.Context) ([]models.EscrowHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EscrowHold
	for _, h := range r.holds {
		if h.PayoutStatus == models.PayoutStatusPending {
			out = append(out, *h)
		}
	}
	return out, nil
}

// fakeEscrow implements the escrow port with per-booking idempotency.
type fakeEscrow struct {
	mu          sync.Mutex
	holds       map[string]string
	releases    map[string]string
	refunds     map[string]string
	holdCalls   int
	refundCalls int
	failHold    bool
	failRefund  bool
	failRelease bool
}

func newFakeEscrow() *fakeEscrow {
	return &fakeEscrow{
		holds:    make(map[string]string),
		releases: make(map[string]string),
		refunds:  make(map[string]string),
	}
}

func (e *fakeEscrow) Hold(_ context.Context, bookingID string, _ int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failHold {
		return "", fmt.Errorf("card declined")
	}
	e.holdCalls++
	if ref, ok := e.holds[bookingID]; ok {
		return ref, nil
	}
	ref := "pi_" + bookingID
	e.holds[bookingID] = ref
	return ref, nil
}

func (e *fakeEscrow) Release(_ context.Context, bookingID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failRelease {
		return "", fmt.Errorf("transfer rejected")
	}
	if ref, ok := e.releases[bookingID]; ok {
		return ref, nil
	}
	ref := "tr_" + bookingID
	e.releases[bookingID] = ref
	return ref, nil
}

func (e *fakeEscrow) Refund(_ context.Context, bookingID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failRefund {
		return "", fmt.Errorf("processor unavailable")
	}
	e.refundCalls++
	if ref, ok := e.refunds[bookingID]; ok {
		return ref, nil
	}
	ref := "re_" + bookingID
	e.refunds[bookingID] = ref
	return ref, nil
}

type fakeMeetings struct {
	fail  bool
	calls int
}

func (m *fakeMeetings) CreateMeeting(_ context.Context, _ string, _ time.Time) (*meeting.Meeting, error) {
	m.calls++
	if m.fail {
		return nil, fmt.Errorf("provider timeout")
	}
	return &meeting.Meeting{MeetingID: "mtg-1", JoinURL: "https://meet.example/mtg-1"}, nil
}

type fakeAvailability struct {
	covers bool
}

func (a *fakeAvailability) SubmitAvailability(_ context.Context, userID string, busy bool, slots []models.TimeSlot) (*models.AvailabilitySet, error) {
	return &models.AvailabilitySet{UserID: userID, Busy: busy, Slots: slots}, nil
}

func (a *fakeAvailability) GetAvailability(_ context.Context, _ string, _ bool, _ string, _ time.Duration) ([]models.TimeSlot, error) {
	return nil, nil
}

func (a *fakeAvailability) GetBusyWindow(_ context.Context, _ string, _ models.TimeSlot) ([]models.TimeSlot, error) {
	return nil, nil
}

func (a *fakeAvailability) FreeCovers(_ context.Context, _ string, _ models.TimeSlot) (bool, error) {
	return a.covers, nil
}
