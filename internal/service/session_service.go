package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"club-service/internal/calendar"
	"club-service/internal/model"
	"club-service/internal/repository"
)

var ErrInvalidDuration = errors.New("session duration must be positive")

// SessionService covers the plain CRUD surface around sessions. Series
// generation and propagation live in SeriesService.
type SessionService interface {
	CreateSession(ctx context.Context, session *model.Session) (*model.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListUpcomingSessions(ctx context.Context, page, limit int) ([]model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	ListRoster(ctx context.Context, sessionID uuid.UUID) ([]model.CoachAssignment, error)
}

type sessionService struct {
	sessions    repository.SessionRepository
	assignments repository.AssignmentRepository
	cal         *calendar.Calendar
}

func NewSessionService(sessions repository.SessionRepository, assignments repository.AssignmentRepository, cal *calendar.Calendar) SessionService {
	return &sessionService{sessions: sessions, assignments: assignments, cal: cal}
}

func (s *sessionService) CreateSession(ctx context.Context, session *model.Session) (*model.Session, error) {
	if session.DurationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if session.ConstraintTag == "" {
		session.ConstraintTag = model.ConstraintAll
	}
	session.WeekISO = s.cal.WeekNumber(session.StartAt)

	return s.sessions.Create(ctx, session)
}

func (s *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) ListUpcomingSessions(ctx context.Context, page, limit int) ([]model.Session, error) {
	offset := (page - 1) * limit
	return s.sessions.ListUpcoming(ctx, limit, offset)
}

// UpdateSession persists a direct edit of one session. The day of a
// session that belongs to a series is immutable even without
// propagation; only deleting and recreating the series may move it.
func (s *sessionService) UpdateSession(ctx context.Context, session *model.Session) error {
	if session.DurationMin <= 0 {
		return ErrInvalidDuration
	}

	persisted, err := s.sessions.FindByID(ctx, session.ID)
	if err != nil {
		return err
	}
	if persisted == nil {
		return ErrSessionNotFound
	}
	if persisted.RecurrenceID != nil && !s.cal.SameCivilDate(persisted.StartAt, session.StartAt) {
		return ErrIllegalDayShift
	}

	session.WeekISO = s.cal.WeekNumber(session.StartAt)

	return s.sessions.Update(ctx, session)
}

func (s *sessionService) ListRoster(ctx context.Context, sessionID uuid.UUID) ([]model.CoachAssignment, error) {
	assignments, err := s.assignments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []model.CoachAssignment{}
	}
	return assignments, nil
}
