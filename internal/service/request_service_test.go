package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

type requestFixture struct {
	*lessonFixture
	svc      *RequestService
	requests *fakeRequestStore
}

func newRequestFixture() *requestFixture {
	lf := newLessonFixture()
	requests := newFakeRequestStore()
	return &requestFixture{
		lessonFixture: lf,
		svc:           NewRequestService(requests, lf.svc, zap.NewNop()),
		requests:      requests,
	}
}

func submitInput(studentID int64) entities.SubmitRequestInput {
	return entities.SubmitRequestInput{
		StudentID: studentID,
		PreferredSlots: []entities.PreferredSlot{
			{StartAt: baseTime, EndAt: baseTime.Add(time.Hour)},
			{StartAt: baseTime.Add(24 * time.Hour), EndAt: baseTime.Add(25 * time.Hour)},
		},
		Location:     "Via Roma 1",
		Transmission: "manual",
		Note:         "prefers mornings",
	}
}

func TestSubmitRequiresSlots(t *testing.T) {
	f := newRequestFixture()

	in := submitInput(1)
	in.PreferredSlots = nil
	_, err := f.svc.Submit(context.Background(), in)
	assert.Error(t, err)
}

func TestSubmitRejectsInvalidSlot(t *testing.T) {
	f := newRequestFixture()

	in := submitInput(1)
	in.PreferredSlots = []entities.PreferredSlot{{StartAt: baseTime.Add(time.Hour), EndAt: baseTime}}
	_, err := f.svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
}

func TestSubmitStoresPendingRequest(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.Submit(context.Background(), submitInput(1))
	require.NoError(t, err)
	assert.Equal(t, schedule.RequestPending, req.Status)
	assert.NotEmpty(t, req.Code)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestAcceptCreatesConfirmedLesson(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, submitInput(1))
	require.NoError(t, err)

	lesson, err := f.svc.Accept(ctx, req.ID, entities.AcceptRequestInput{
		InstructorID: 10,
		StartAt:      baseTime,
		EndAt:        baseTime.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusConfirmed, lesson.Status)
	assert.Equal(t, int64(1), lesson.StudentID)
	// Location falls back to the request's when staff leave it empty.
	assert.Equal(t, "Via Roma 1", lesson.Location)

	handled, err := f.svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.RequestAccepted, handled.Status)
}

func TestAcceptTwiceFails(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, submitInput(1))
	require.NoError(t, err)

	in := entities.AcceptRequestInput{InstructorID: 10, StartAt: baseTime, EndAt: baseTime.Add(time.Hour)}
	_, err = f.svc.Accept(ctx, req.ID, in)
	require.NoError(t, err)

	in.StartAt = baseTime.Add(24 * time.Hour)
	in.EndAt = baseTime.Add(25 * time.Hour)
	_, err = f.svc.Accept(ctx, req.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyHandled)
}

func TestAcceptConflictReopensRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	// The instructor is already booked over the picked slot.
	_, err := f.lessonFixture.svc.CheckAndCreate(ctx, booking(2, 10, nil, baseTime, baseTime.Add(time.Hour)))
	require.NoError(t, err)

	req, err := f.svc.Submit(ctx, submitInput(1))
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, req.ID, entities.AcceptRequestInput{
		InstructorID: 10,
		StartAt:      baseTime,
		EndAt:        baseTime.Add(time.Hour),
	})
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, schedule.DimInstructor, conflict.Dimension)

	// The failed booking must not consume the request.
	reopened, err := f.svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.RequestPending, reopened.Status)

	// A second accept on a free slot goes through.
	lesson, err := f.svc.Accept(ctx, req.ID, entities.AcceptRequestInput{
		InstructorID: 11,
		StartAt:      baseTime,
		EndAt:        baseTime.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusConfirmed, lesson.Status)
}

func TestRejectAppendsReason(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, submitInput(1))
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, req.ID, "no instructor available that week")
	require.NoError(t, err)
	assert.Equal(t, schedule.RequestRejected, rejected.Status)
	assert.Equal(t, "prefers mornings\nRejected: no instructor available that week", rejected.Note)

	_, err = f.svc.Reject(ctx, req.ID, "again")
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyHandled)

	_, err = f.svc.Accept(ctx, req.ID, entities.AcceptRequestInput{
		InstructorID: 10,
		StartAt:      baseTime,
		EndAt:        baseTime.Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyHandled)
}

func TestSubmittedSlotsRoundTrip(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.Submit(context.Background(), submitInput(1))
	require.NoError(t, err)

	var slots []entities.PreferredSlot
	require.NoError(t, json.Unmarshal(req.PreferredSlots, &slots))
	require.Len(t, slots, 2)
	assert.True(t, slots[0].StartAt.Equal(baseTime))
}
