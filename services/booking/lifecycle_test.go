package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"monet/models"
	"monet/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*DefaultBookingLifecycleService, *fakeBookingRepo, *fakePaymentRepo, *fakeEscrow, *fakeMeetings, *fakeAvailability) {
	repo := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	escrow := newFakeEscrow()
	meetings := &fakeMeetings{}
	avail := &fakeAvailability{covers: true}
	svc := &DefaultBookingLifecycleService{
		Repo:                  repo,
		Payments:              payments,
		Escrow:                escrow,
		Meetings:              meetings,
		Availability:          avail,
		Logger:                zap.NewNop(),
		CancellationWindowMin: 180,
	}
	return svc, repo, payments, escrow, meetings, avail
}

func futureSlot(offset time.Duration) models.TimeSlot {
	start := time.Now().UTC().Add(offset).Truncate(time.Minute)
	return models.TimeSlot{Start: start, End: start.Add(CallDuration), Timezone: "UTC"}
}

func candidate(id string) models.Actor    { return models.Actor{ID: id, Role: models.RoleCandidate} }
func professional(id string) models.Actor { return models.Actor{ID: id, Role: models.RoleProfessional} }

func seedBooking(t *testing.T, svc *DefaultBookingLifecycleService) *models.Booking {
	t.Helper()
	b, err := svc.RequestBooking(context.Background(), candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1",
		Slot:           futureSlot(24 * time.Hour),
		PriceCents:     5000,
	})
	require.NoError(t, err)
	return b
}

func TestRequestBookingHoldsEscrow(t *testing.T) {
	svc, repo, payments, escrow, _, _ := newTestService()

	b := seedBooking(t, svc)
	assert.Equal(t, models.BookingStatusRequested, b.Status)
	assert.Equal(t, "pi_"+b.ID, b.EscrowRef)
	assert.Equal(t, 1, escrow.holdCalls)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cand-1", stored.CandidateID)
	assert.Equal(t, CallDuration, stored.EndAt.Sub(stored.StartAt))

	hold, err := payments.GetByBookingID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EscrowStatusHeld, hold.Status)
	assert.Equal(t, models.PayoutStatusNone, hold.PayoutStatus)
	assert.Equal(t, int64(5000), hold.AmountCents)
}

func TestRequestBookingValidation(t *testing.T) {
	svc, repo, _, escrow, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RequestBooking(ctx, professional("pro-1"), BookingRequest{
		ProfessionalID: "pro-2", Slot: futureSlot(time.Hour), PriceCents: 5000,
	})
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))

	// Wrong duration.
	slot := futureSlot(time.Hour)
	slot.End = slot.Start.Add(45 * time.Minute)
	_, err = svc.RequestBooking(ctx, candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1", Slot: slot, PriceCents: 5000,
	})
	assert.Equal(t, utils.CodeInvalidPayload, utils.ErrorCode(err))

	// Slot in the past.
	_, err = svc.RequestBooking(ctx, candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1", Slot: futureSlot(-2 * time.Hour), PriceCents: 5000,
	})
	assert.Equal(t, utils.CodeInvalidPayload, utils.ErrorCode(err))

	// Nothing persisted and no money moved on any rejection.
	assert.Equal(t, 0, escrow.holdCalls)
	assert.Empty(t, repo.bookings)
}

func TestRequestBookingDeclinedHold(t *testing.T) {
	svc, repo, _, escrow, _, _ := newTestService()
	escrow.failHold = true

	_, err := svc.RequestBooking(context.Background(), candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1", Slot: futureSlot(time.Hour), PriceCents: 5000,
	})
	assert.Equal(t, utils.CodePaymentFailed, utils.ErrorCode(err))
	assert.Empty(t, repo.bookings)
}

func TestAcceptBookingAttachesMeeting(t *testing.T) {
	svc, _, _, _, meetings, _ := newTestService()
	b := seedBooking(t, svc)

	accepted, err := svc.AcceptBooking(context.Background(), professional("pro-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, accepted.Status)
	assert.Equal(t, "mtg-1", accepted.MeetingID)
	assert.Equal(t, "https://meet.example/mtg-1", accepted.MeetingJoinURL)
	assert.Equal(t, 1, meetings.calls)
}

func TestAcceptBookingRevalidatesAvailability(t *testing.T) {
	svc, repo, _, _, _, avail := newTestService()
	b := seedBooking(t, svc)

	avail.covers = false
	_, err := svc.AcceptBooking(context.Background(), professional("pro-1"), b.ID)
	assert.Equal(t, utils.CodeSlotUnavailable, utils.ErrorCode(err))

	stored, _ := repo.GetByID(context.Background(), b.ID)
	assert.Equal(t, models.BookingStatusRequested, stored.Status)
}

func TestAcceptBookingAuthorization(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()

	_, err := svc.AcceptBooking(ctx, professional("pro-other"), b.ID)
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))

	_, err = svc.AcceptBooking(ctx, candidate("cand-1"), b.ID)
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))

	_, err = svc.AcceptBooking(ctx, professional("pro-1"), "nope")
	assert.Equal(t, utils.CodeBookingNotFound, utils.ErrorCode(err))
}

func TestDeclineRefundsHold(t *testing.T) {
	svc, _, payments, escrow, _, _ := newTestService()
	b := seedBooking(t, svc)

	declined, err := svc.DeclineBooking(context.Background(), professional("pro-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDeclined, declined.Status)
	assert.Equal(t, 1, escrow.refundCalls)

	hold, _ := payments.GetByBookingID(context.Background(), b.ID)
	assert.Equal(t, models.EscrowStatusRefunded, hold.Status)
	assert.Equal(t, "re_"+b.ID, hold.RefundRef)
}

func TestCandidateCancellationWindow(t *testing.T) {
	svc, repo, _, escrow, _, _ := newTestService()
	ctx := context.Background()

	// Inside the window: rejected, nothing refunded.
	soon, err := svc.RequestBooking(ctx, candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1", Slot: futureSlot(time.Hour), PriceCents: 5000,
	})
	require.NoError(t, err)
	_, err = svc.CancelBooking(ctx, candidate("cand-1"), soon.ID, "changed my mind")
	assert.Equal(t, utils.CodeLateCancellation, utils.ErrorCode(err))
	assert.Equal(t, 0, escrow.refundCalls)
	stored, _ := repo.GetByID(ctx, soon.ID)
	assert.Equal(t, models.BookingStatusRequested, stored.Status)

	// Outside the window: cancelled with a refund.
	far := seedBooking(t, svc)
	cancelled, err := svc.CancelBooking(ctx, candidate("cand-1"), far.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "cand-1", cancelled.CancelledBy)
	assert.Equal(t, 1, escrow.refundCalls)
}

func TestProfessionalCancelIgnoresWindow(t *testing.T) {
	svc, _, payments, _, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.RequestBooking(ctx, candidate("cand-1"), BookingRequest{
		ProfessionalID: "pro-1", Slot: futureSlot(30 * time.Minute), PriceCents: 5000,
	})
	require.NoError(t, err)
	_, err = svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, professional("pro-1"), b.ID, "emergency")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	hold, _ := payments.GetByBookingID(ctx, b.ID)
	assert.Equal(t, models.EscrowStatusRefunded, hold.Status)
}

func TestCancelOutsiderForbidden(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)

	_, err := svc.CancelBooking(context.Background(), candidate("cand-other"), b.ID, "")
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))
}

func TestRefundFailureLeavesStateUnchanged(t *testing.T) {
	svc, repo, payments, escrow, _, _ := newTestService()
	b := seedBooking(t, svc)
	escrow.failRefund = true

	_, err := svc.DeclineBooking(context.Background(), professional("pro-1"), b.ID)
	assert.Equal(t, utils.CodeRefundFailed, utils.ErrorCode(err))

	stored, _ := repo.GetByID(context.Background(), b.ID)
	assert.Equal(t, models.BookingStatusRequested, stored.Status)
	hold, _ := payments.GetByBookingID(context.Background(), b.ID)
	assert.Equal(t, models.EscrowStatusHeld, hold.Status)

	// Processor recovers; the retry succeeds.
	escrow.failRefund = false
	declined, err := svc.DeclineBooking(context.Background(), professional("pro-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDeclined, declined.Status)
}

func TestRecordJoinSinglePartyKeepsAccepted(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()
	_, err := svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	joined, err := svc.RecordJoin(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, joined.Status)
	assert.NotNil(t, joined.CandidateJoinedAt)
	assert.Nil(t, joined.ProfessionalJoinedAt)

	// The same party joining again changes nothing.
	first := *joined.CandidateJoinedAt
	again, err := svc.RecordJoin(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *again.CandidateJoinedAt)
}

func TestRecordJoinBothPartiesCompletes(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()
	_, err := svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	_, err = svc.RecordJoin(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	joined, err := svc.RecordJoin(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPendingFeedback, joined.Status)
	assert.NotNil(t, joined.CandidateJoinedAt)
	assert.NotNil(t, joined.ProfessionalJoinedAt)
	assert.Equal(t, 1, repo.completions)
}

func TestRecordJoinConcurrent(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()
	_, err := svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, actor := range []models.Actor{candidate("cand-1"), professional("pro-1")} {
		wg.Add(1)
		go func(a models.Actor) {
			defer wg.Done()
			_, joinErr := svc.RecordJoin(ctx, a, b.ID)
			assert.NoError(t, joinErr)
		}(actor)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingFeedback, stored.Status)
	assert.NotNil(t, stored.CandidateJoinedAt)
	assert.NotNil(t, stored.ProfessionalJoinedAt)
	// Exactly one caller performed the completion transition.
	assert.Equal(t, 1, repo.completions)
}

func TestRecordJoinBeforeAcceptance(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)

	_, err := svc.RecordJoin(context.Background(), candidate("cand-1"), b.ID)
	assert.Equal(t, utils.CodeBookingConflict, utils.ErrorCode(err))
}

func TestCompleteFromQCWinner(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()
	_, err := svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)
	_, err = svc.RecordJoin(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	_, err = svc.RecordJoin(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)

	won, err := svc.CompleteFromQC(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, won)

	// A recheck of the same verdict finds the work already done.
	won, err = svc.CompleteFromQC(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, won)

	stored, _ := repo.GetByID(ctx, b.ID)
	assert.Equal(t, models.BookingStatusCompleted, stored.Status)
}

func TestRefundCompletedAdminOnly(t *testing.T) {
	svc, repo, payments, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()
	_, err := svc.AcceptBooking(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)
	_, err = svc.RecordJoin(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	_, err = svc.RecordJoin(ctx, professional("pro-1"), b.ID)
	require.NoError(t, err)
	_, err = svc.CompleteFromQC(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.RefundCompleted(ctx, candidate("cand-1"), b.ID, "")
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))

	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	refunded, err := svc.RefundCompleted(ctx, admin, b.ID, "bad call")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRefunded, refunded.Status)

	hold, _ := payments.GetByBookingID(ctx, b.ID)
	assert.Equal(t, models.EscrowStatusRefunded, hold.Status)

	stored, _ := repo.GetByID(ctx, b.ID)
	assert.Equal(t, "bad call", stored.CancelReason)
}

func TestGetBookingPartyOnly(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	b := seedBooking(t, svc)
	ctx := context.Background()

	got, err := svc.GetBooking(ctx, candidate("cand-1"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBooking(ctx, candidate("cand-other"), b.ID)
	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))

	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	_, err = svc.GetBooking(ctx, admin, b.ID)
	require.NoError(t, err)
}
