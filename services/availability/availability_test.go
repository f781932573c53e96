package availability

import (
	"context"
	"testing"
	"time"

	"monet/models"
	"monet/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAvailabilityRepo struct {
	sets map[string]models.AvailabilitySet
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{sets: make(map[string]models.AvailabilitySet)}
}

func key(userID string, busy bool) string {
	if busy {
		return userID + ":busy"
	}
	return userID + ":free"
}

func (r *fakeAvailabilityRepo) ReplaceSet(_ context.Context, set models.AvailabilitySet) error {
	r.sets[key(set.UserID, set.Busy)] = set
	return nil
}

func (r *fakeAvailabilityRepo) GetSet(_ context.Context, userID string, busy bool) (*models.AvailabilitySet, error) {
	set, ok := r.sets[key(userID, busy)]
	if !ok {
		return &models.AvailabilitySet{UserID: userID, Busy: busy}, nil
	}
	return &set, nil
}

type fakeCalendar struct {
	slots []models.TimeSlot
	err   error
}

func (c *fakeCalendar) GetBusyIntervals(_ context.Context, _ string, _ models.TimeSlot) ([]models.TimeSlot, error) {
	return c.slots, c.err
}

func newService(repo *fakeAvailabilityRepo) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{Repo: repo, Logger: zap.NewNop()}
}

func utcSlot(h, m, endH, endM int) models.TimeSlot {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return models.TimeSlot{
		Start:    day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute),
		End:      day.Add(time.Duration(endH)*time.Hour + time.Duration(endM)*time.Minute),
		Timezone: "UTC",
	}
}

func TestSubmitAvailabilityNormalizesAndReplaces(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := newService(repo)
	ctx := context.Background()

	// First submission: overlapping, unsorted input.
	_, err := svc.SubmitAvailability(ctx, "cand-1", false, []models.TimeSlot{
		utcSlot(10, 0, 11, 0),
		utcSlot(9, 0, 10, 30),
	})
	require.NoError(t, err)

	set, err := repo.GetSet(ctx, "cand-1", false)
	require.NoError(t, err)
	require.Len(t, set.Slots, 1)
	assert.Equal(t, utcSlot(9, 0, 11, 0).Start, set.Slots[0].Start)
	assert.Equal(t, utcSlot(9, 0, 11, 0).End, set.Slots[0].End)

	// Resubmission fully supersedes the old set.
	_, err = svc.SubmitAvailability(ctx, "cand-1", false, []models.TimeSlot{
		utcSlot(14, 0, 15, 0),
	})
	require.NoError(t, err)

	set, err = repo.GetSet(ctx, "cand-1", false)
	require.NoError(t, err)
	require.Len(t, set.Slots, 1)
	assert.Equal(t, utcSlot(14, 0, 15, 0).Start, set.Slots[0].Start)
}

func TestSubmitAvailabilityRejectsMalformedSlot(t *testing.T) {
	svc := newService(newFakeAvailabilityRepo())

	_, err := svc.SubmitAvailability(context.Background(), "cand-1", false, []models.TimeSlot{
		{Start: utcSlot(10, 0, 11, 0).End, End: utcSlot(10, 0, 11, 0).Start, Timezone: "UTC"},
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeInvalidPayload, utils.ErrorCode(err))
}

func TestSubmitAvailabilityRejectsUnknownTimezone(t *testing.T) {
	svc := newService(newFakeAvailabilityRepo())

	bad := utcSlot(10, 0, 11, 0)
	bad.Timezone = "Atlantis/Capital"
	_, err := svc.SubmitAvailability(context.Background(), "cand-1", false, []models.TimeSlot{bad})
	require.Error(t, err)
	assert.Equal(t, utils.CodeInvalidTimezone, utils.ErrorCode(err))
}

func TestGetAvailabilityConvertsAndSplits(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.SubmitAvailability(ctx, "cand-1", false, []models.TimeSlot{utcSlot(14, 0, 15, 0)})
	require.NoError(t, err)

	got, err := svc.GetAvailability(ctx, "cand-1", false, "America/New_York", 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "America/New_York", got[0].Timezone)
	assert.True(t, got[0].Start.Equal(utcSlot(14, 0, 14, 30).Start))
	assert.True(t, got[1].Start.Equal(utcSlot(14, 30, 15, 0).Start))
}

func TestGetBusyWindowMergesCalendarBestEffort(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := newService(repo)
	svc.Calendar = &fakeCalendar{slots: []models.TimeSlot{utcSlot(9, 30, 10, 30)}}
	ctx := context.Background()

	_, err := svc.SubmitAvailability(ctx, "pro-1", true, []models.TimeSlot{utcSlot(9, 0, 10, 0)})
	require.NoError(t, err)

	window := utcSlot(8, 0, 18, 0)
	got, err := svc.GetBusyWindow(ctx, "pro-1", window)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(utcSlot(9, 0, 10, 30).Start))
	assert.True(t, got[0].End.Equal(utcSlot(9, 0, 10, 30).End))
}

func TestGetBusyWindowDegradesOnCalendarFailure(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := newService(repo)
	svc.Calendar = &fakeCalendar{err: assert.AnError}
	ctx := context.Background()

	_, err := svc.SubmitAvailability(ctx, "pro-1", true, []models.TimeSlot{utcSlot(9, 0, 10, 0)})
	require.NoError(t, err)

	got, err := svc.GetBusyWindow(ctx, "pro-1", utcSlot(8, 0, 18, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestFreeCovers(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.SubmitAvailability(ctx, "cand-1", false, []models.TimeSlot{utcSlot(9, 0, 12, 0)})
	require.NoError(t, err)

	ok, err := svc.FreeCovers(ctx, "cand-1", utcSlot(10, 0, 10, 30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.FreeCovers(ctx, "cand-1", utcSlot(11, 45, 12, 15))
	require.NoError(t, err)
	assert.False(t, ok)
}
