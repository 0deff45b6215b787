package service_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/model"
	"club-service/internal/repository"
)

var errStoreFailure = errors.New("store failure")

// fakeStore is an in-memory stand-in for the persistence collaborator.
// The fake transaction manager snapshots it before each unit of work and
// restores it on error, mirroring the all-or-nothing contract of the
// real store.
type fakeStore struct {
	sessions    map[uuid.UUID]model.Session
	recurrences map[uuid.UUID]model.Recurrence
	assignments map[uuid.UUID]model.CoachAssignment

	sessionCreates    int
	assignmentCreates int

	// 1-based attempt number at which Create starts failing; 0 disables.
	failSessionCreateAt    int
	failAssignmentCreateAt int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:    make(map[uuid.UUID]model.Session),
		recurrences: make(map[uuid.UUID]model.Recurrence),
		assignments: make(map[uuid.UUID]model.CoachAssignment),
	}
}

func (st *fakeStore) snapshot() (map[uuid.UUID]model.Session, map[uuid.UUID]model.Recurrence, map[uuid.UUID]model.CoachAssignment) {
	sessions := make(map[uuid.UUID]model.Session, len(st.sessions))
	for k, v := range st.sessions {
		sessions[k] = v
	}
	recurrences := make(map[uuid.UUID]model.Recurrence, len(st.recurrences))
	for k, v := range st.recurrences {
		recurrences[k] = v
	}
	assignments := make(map[uuid.UUID]model.CoachAssignment, len(st.assignments))
	for k, v := range st.assignments {
		assignments[k] = v
	}
	return sessions, recurrences, assignments
}

func (st *fakeStore) assignmentsBySession(sessionID uuid.UUID) []model.CoachAssignment {
	var out []model.CoachAssignment
	for _, a := range st.assignments {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.CoachAssignment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

type fakeTxManager struct {
	st *fakeStore
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	sessions, recurrences, assignments := m.st.snapshot()
	if err := fn(ctx, nil); err != nil {
		m.st.sessions = sessions
		m.st.recurrences = recurrences
		m.st.assignments = assignments
		return err
	}
	return nil
}

type fakeSessionRepo struct {
	st *fakeStore
}

func (r *fakeSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository { return r }

func (r *fakeSessionRepo) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	r.st.sessionCreates++
	if r.st.failSessionCreateAt > 0 && r.st.sessionCreates >= r.st.failSessionCreateAt {
		return nil, errStoreFailure
	}
	s.ID = uuid.New()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.st.sessions[s.ID] = *s
	return s, nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := r.st.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *model.Session) error {
	if _, ok := r.st.sessions[s.ID]; !ok {
		return fmt.Errorf("update of unknown session %s", s.ID)
	}
	s.UpdatedAt = time.Now()
	r.st.sessions[s.ID] = *s
	return nil
}

func (r *fakeSessionRepo) ListBySeriesFrom(ctx context.Context, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.st.sessions {
		if s.RecurrenceID == nil || *s.RecurrenceID != recurrenceID {
			continue
		}
		if s.StartAt.Before(pivot) || s.ID == exclude {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Session) int {
		return a.StartAt.Compare(b.StartAt)
	})
	return out, nil
}

func (r *fakeSessionRepo) ListUpcoming(ctx context.Context, limit, offset int) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.st.sessions {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Session) int {
		return a.StartAt.Compare(b.StartAt)
	})
	if offset >= len(out) {
		return []model.Session{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRecurrenceRepo struct {
	st *fakeStore
}

func (r *fakeRecurrenceRepo) WithTx(tx *sqlx.Tx) repository.RecurrenceRepository { return r }

func (r *fakeRecurrenceRepo) Create(ctx context.Context, rec *model.Recurrence) (*model.Recurrence, error) {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	r.st.recurrences[rec.ID] = *rec
	return rec, nil
}

func (r *fakeRecurrenceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recurrence, error) {
	rec, ok := r.st.recurrences[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type fakeAssignmentRepo struct {
	st *fakeStore
}

func (r *fakeAssignmentRepo) WithTx(tx *sqlx.Tx) repository.AssignmentRepository { return r }

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *model.CoachAssignment) (*model.CoachAssignment, error) {
	r.st.assignmentCreates++
	if r.st.failAssignmentCreateAt > 0 && r.st.assignmentCreates >= r.st.failAssignmentCreateAt {
		return nil, errStoreFailure
	}
	// Emulates the unique (session, coach) constraint.
	for _, existing := range r.st.assignments {
		if existing.SessionID == a.SessionID && existing.CoachID == a.CoachID {
			return nil, fmt.Errorf("unique_coach_per_session violated: %w", errStoreFailure)
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.st.assignments[a.ID] = *a
	return a, nil
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, a *model.CoachAssignment) error {
	if _, ok := r.st.assignments[a.ID]; !ok {
		return fmt.Errorf("update of unknown assignment %s", a.ID)
	}
	r.st.assignments[a.ID] = *a
	return nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.st.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CoachAssignment, error) {
	return r.st.assignmentsBySession(sessionID), nil
}

func (r *fakeAssignmentRepo) inSeriesWindow(a model.CoachAssignment, recurrenceID uuid.UUID, pivot time.Time) bool {
	s, ok := r.st.sessions[a.SessionID]
	if !ok || s.RecurrenceID == nil {
		return false
	}
	return *s.RecurrenceID == recurrenceID && !s.StartAt.Before(pivot)
}

func (r *fakeAssignmentRepo) DeleteForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, keep []uuid.UUID) (int64, error) {
	var n int64
	for id, a := range r.st.assignments {
		if a.CoachID != coachID || slices.Contains(keep, id) {
			continue
		}
		if !r.inSeriesWindow(a, recurrenceID, pivot) {
			continue
		}
		delete(r.st.assignments, id)
		n++
	}
	return n, nil
}

func (r *fakeAssignmentRepo) UpdateForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID, override model.AssignmentOverride) (int64, error) {
	if override.IsZero() {
		return 0, nil
	}
	var n int64
	for id, a := range r.st.assignments {
		if a.CoachID != coachID || id == exclude {
			continue
		}
		if !r.inSeriesWindow(a, recurrenceID, pivot) {
			continue
		}
		if override.Status != nil {
			a.Status = *override.Status
		}
		if override.Role != nil {
			a.Role = *override.Role
		}
		r.st.assignments[id] = a
		n++
	}
	return n, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishSeriesCreated(*model.Recurrence, *model.Session, int) error { return nil }
func (noopPublisher) PublishSessionUpdated(*model.Session, int) error                   { return nil }
func (noopPublisher) PublishRosterUpdated(*model.Session, int) error                    { return nil }
