package service

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"time"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// fakeLessonStore is an in-memory LessonStore. Insert enforces the same
// no-overlap guarantee the Postgres exclusion constraints provide, so
// racing bookings fail the way they do against the real database.
type fakeLessonStore struct {
	mu      sync.Mutex
	nextID  int64
	lessons map[int64]*db.Lesson
	notes   map[int64]*db.LessonNote
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{
		lessons: make(map[int64]*db.Lesson),
		notes:   make(map[int64]*db.LessonNote),
	}
}

func (f *fakeLessonStore) Insert(ctx context.Context, l *db.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.lessons {
		if !existing.Status.Active() {
			continue
		}
		if !schedule.Overlaps(existing.StartAt, existing.EndAt, l.StartAt, l.EndAt) {
			continue
		}
		switch {
		case existing.InstructorID == l.InstructorID:
			return &apperrors.ConflictError{Dimension: schedule.DimInstructor, ResourceID: l.InstructorID}
		case existing.StudentID == l.StudentID:
			return &apperrors.ConflictError{Dimension: schedule.DimStudent, ResourceID: l.StudentID}
		case l.VehicleID != nil && existing.VehicleID != nil && *existing.VehicleID == *l.VehicleID:
			return &apperrors.ConflictError{Dimension: schedule.DimVehicle, ResourceID: *l.VehicleID}
		}
	}
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.lessons[l.ID] = &cp
	return nil
}

func (f *fakeLessonStore) GetByID(ctx context.Context, id int64) (*db.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "lesson", ID: id}
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLessonStore) FindActiveOverlapping(ctx context.Context, dim schedule.Dimension, resourceID int64, start, end time.Time) ([]db.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Lesson
	for _, l := range f.lessons {
		if !l.Status.Active() || !schedule.Overlaps(l.StartAt, l.EndAt, start, end) {
			continue
		}
		switch dim {
		case schedule.DimInstructor:
			if l.InstructorID == resourceID {
				out = append(out, *l)
			}
		case schedule.DimStudent:
			if l.StudentID == resourceID {
				out = append(out, *l)
			}
		case schedule.DimVehicle:
			if l.VehicleID != nil && *l.VehicleID == resourceID {
				out = append(out, *l)
			}
		}
	}
	return out, nil
}

func (f *fakeLessonStore) UpdateStatusFrom(ctx context.Context, id int64, from, to schedule.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	return true, nil
}

func (f *fakeLessonStore) CancelFrom(ctx context.Context, id int64, from schedule.Status, reason string, role schedule.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = schedule.StatusCancelled
	l.CancelReason = &reason
	l.CancelledBy = &role
	return true, nil
}

func (f *fakeLessonStore) CompleteFrom(ctx context.Context, id int64, from schedule.Status, note *db.LessonNote) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = schedule.StatusCompleted
	note.LessonID = id
	f.notes[id] = note
	return true, nil
}

func (f *fakeLessonStore) List(ctx context.Context, filter entities.LessonFilter) ([]db.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Lesson
	for _, l := range f.lessons {
		if filter.InstructorID != 0 && l.InstructorID != filter.InstructorID {
			continue
		}
		if filter.StudentID != 0 && l.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

type skillKey struct {
	studentID int64
	skillID   int64
}

type fakeSkillStore struct {
	mu      sync.Mutex
	records map[skillKey]db.StudentSkill
}

func newFakeSkillStore() *fakeSkillStore {
	return &fakeSkillStore{records: make(map[skillKey]db.StudentSkill)}
}

func (f *fakeSkillStore) Upsert(ctx context.Context, s *db.StudentSkill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[skillKey{s.StudentID, s.SkillID}] = *s
	return nil
}

func (f *fakeSkillStore) ListByStudent(ctx context.Context, studentID int64) ([]db.StudentSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.StudentSkill
	for key, record := range f.records {
		if key.studentID == studentID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeSettingStore struct {
	values map[string]string
}

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{values: make(map[string]string)}
}

func (f *fakeSettingStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", sql.ErrNoRows
	}
	return v, nil
}

func (f *fakeSettingStore) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	v, ok := f.values[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

func (f *fakeSettingStore) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type fakeAvailabilityStore struct {
	slots   []db.AvailabilitySlot
	timeOff []db.TimeOff
}

func (f *fakeAvailabilityStore) CreateSlot(ctx context.Context, s *db.AvailabilitySlot) error {
	s.ID = int64(len(f.slots) + 1)
	f.slots = append(f.slots, *s)
	return nil
}

func (f *fakeAvailabilityStore) DeleteSlot(ctx context.Context, id, instructorID int64) (bool, error) {
	for i, s := range f.slots {
		if s.ID == id && s.InstructorID == instructorID {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAvailabilityStore) ListSlots(ctx context.Context, instructorID int64, from, to time.Time) ([]db.AvailabilitySlot, error) {
	var out []db.AvailabilitySlot
	for _, s := range f.slots {
		if s.InstructorID == instructorID && schedule.Overlaps(s.StartAt, s.EndAt, from, to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) CoveringSlotExists(ctx context.Context, instructorID int64, start, end time.Time) (bool, error) {
	for _, s := range f.slots {
		if s.InstructorID == instructorID && !s.IsBlocked && !s.StartAt.After(start) && !s.EndAt.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAvailabilityStore) CreateTimeOff(ctx context.Context, t *db.TimeOff) error {
	t.ID = int64(len(f.timeOff) + 1)
	f.timeOff = append(f.timeOff, *t)
	return nil
}

func (f *fakeAvailabilityStore) DeleteTimeOff(ctx context.Context, id, instructorID int64) (bool, error) {
	for i, t := range f.timeOff {
		if t.ID == id && t.InstructorID == instructorID {
			f.timeOff = append(f.timeOff[:i], f.timeOff[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAvailabilityStore) ListTimeOff(ctx context.Context, instructorID int64, from, to time.Time) ([]db.TimeOff, error) {
	var out []db.TimeOff
	for _, t := range f.timeOff {
		if t.InstructorID == instructorID && schedule.Overlaps(t.StartAt, t.EndAt, from, to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) TimeOffOverlapping(ctx context.Context, instructorID int64, start, end time.Time) (bool, error) {
	for _, t := range f.timeOff {
		if t.InstructorID == instructorID && schedule.Overlaps(t.StartAt, t.EndAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*db.LessonRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[int64]*db.LessonRequest)}
}

func (f *fakeRequestStore) Insert(ctx context.Context, req *db.LessonRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = f.nextID
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (*db.LessonRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "lesson request", ID: id}
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestStore) ListPending(ctx context.Context) ([]db.LessonRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.LessonRequest
	for _, req := range f.requests {
		if req.Status == schedule.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) MarkHandled(ctx context.Context, id int64, status schedule.RequestStatus, note string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != schedule.RequestPending {
		return false, nil
	}
	req.Status = status
	req.Note = note
	return true, nil
}

func (f *fakeRequestStore) Reopen(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req, ok := f.requests[id]; ok {
		req.Status = schedule.RequestPending
	}
	return nil
}
