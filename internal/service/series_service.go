package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/calendar"
	"club-service/internal/events"
	"club-service/internal/model"
	"club-service/internal/repository"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidSeriesRequest = errors.New("invalid series request")
	ErrNotInSeries          = errors.New("session does not belong to a series")
	ErrIllegalDayShift      = errors.New("cannot change the day of a session that belongs to a series")
)

// maxSeriesHorizonDays bounds the end date of a series relative to the
// anchor's date.
const maxSeriesHorizonDays = 365

// RosterEntry is the desired state of one coach on a session.
type RosterEntry struct {
	CoachID uuid.UUID
	Status  string
	Role    string
}

// SeriesService turns a session into a repeating series and keeps all
// later occurrences of a series consistent when one of them is edited.
type SeriesService interface {
	CreateSeries(ctx context.Context, sessionID uuid.UUID, mode model.RecurrenceMode, endDate time.Time) (*model.Recurrence, error)
	PropagateFields(ctx context.Context, source *model.Session, changed []model.SessionField) error
	PropagateRoster(ctx context.Context, prior, post []model.CoachAssignment) error
	ReplaceRoster(ctx context.Context, sessionID uuid.UUID, desired []RosterEntry) error
}

type seriesService struct {
	txm         repository.TxManager
	sessions    repository.SessionRepository
	recurrences repository.RecurrenceRepository
	assignments repository.AssignmentRepository
	cal         *calendar.Calendar
	publisher   events.EventPublisher
}

func NewSeriesService(
	txm repository.TxManager,
	sessions repository.SessionRepository,
	recurrences repository.RecurrenceRepository,
	assignments repository.AssignmentRepository,
	cal *calendar.Calendar,
	publisher events.EventPublisher,
) SeriesService {
	return &seriesService{
		txm:         txm,
		sessions:    sessions,
		recurrences: recurrences,
		assignments: assignments,
		cal:         cal,
		publisher:   publisher,
	}
}

// CreateSeries promotes a standalone session into the anchor of a new
// series. Each generated occurrence is a clone of the anchor (new
// identity, same fields) at the generated instant, carrying a clone of
// the anchor's coach roster. All writes happen in one transaction: a
// failure anywhere leaves the anchor standalone and nothing persisted.
func (s *seriesService) CreateSeries(ctx context.Context, sessionID uuid.UUID, mode model.RecurrenceMode, endDate time.Time) (*model.Recurrence, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidSeriesRequest, mode)
	}

	anchor, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, ErrSessionNotFound
	}
	if anchor.RecurrenceID != nil {
		return nil, fmt.Errorf("%w: session already belongs to a series", ErrInvalidSeriesRequest)
	}

	anchorDate := s.cal.DateOf(anchor.StartAt)
	end := s.cal.DateOf(endDate)
	if !end.After(anchorDate) {
		return nil, fmt.Errorf("%w: end date must be after the first session", ErrInvalidSeriesRequest)
	}
	if end.After(anchorDate.AddDate(0, 0, maxSeriesHorizonDays)) {
		return nil, fmt.Errorf("%w: a series cannot span more than one year", ErrInvalidSeriesRequest)
	}

	rec := &model.Recurrence{Mode: mode, EndDate: end}
	occurrences := 0

	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		recurrences := s.recurrences.WithTx(tx)
		assignments := s.assignments.WithTx(tx)

		if _, err := recurrences.Create(ctx, rec); err != nil {
			return err
		}

		anchor.RecurrenceID = &rec.ID
		anchor.WeekISO = s.cal.WeekNumber(anchor.StartAt)
		if err := sessions.Update(ctx, anchor); err != nil {
			return err
		}

		roster, err := assignments.ListBySession(ctx, anchor.ID)
		if err != nil {
			return err
		}

		for occ := range s.cal.Occurrences(anchor.StartAt, rec.EndDate, mode == model.RecurrenceSameType) {
			clone := anchor.CloneAt(occ)
			clone.WeekISO = s.cal.WeekNumber(occ)
			if _, err := sessions.Create(ctx, clone); err != nil {
				return err
			}
			for i := range roster {
				if _, err := assignments.Create(ctx, roster[i].CloneFor(clone.ID)); err != nil {
					return err
				}
			}
			occurrences++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.publisher.PublishSeriesCreated(rec, anchor, occurrences)

	return rec, nil
}

// PropagateFields replicates the changed scalar fields of source onto
// every session of the same series starting at or after it. The source
// carries the new values; the store still holds the previous ones, which
// is what the day-shift guard is checked against. A start_at change only
// carries its time-of-day forward: each later occurrence keeps its own
// date. The source row itself is persisted in the same transaction.
func (s *seriesService) PropagateFields(ctx context.Context, source *model.Session, changed []model.SessionField) error {
	if source.RecurrenceID == nil {
		return ErrNotInSeries
	}
	for _, f := range changed {
		if !f.Valid() {
			return fmt.Errorf("unknown session field %q", f)
		}
	}
	startChanged := slices.Contains(changed, model.FieldStartAt)

	propagated := 0
	err := s.txm.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)

		persisted, err := sessions.FindByID(ctx, source.ID)
		if err != nil {
			return err
		}
		if persisted == nil {
			return ErrSessionNotFound
		}
		if startChanged && !s.cal.SameCivilDate(persisted.StartAt, source.StartAt) {
			return ErrIllegalDayShift
		}

		targets, err := sessions.ListBySeriesFrom(ctx, *source.RecurrenceID, source.StartAt, source.ID)
		if err != nil {
			return err
		}

		source.WeekISO = s.cal.WeekNumber(source.StartAt)
		if err := sessions.Update(ctx, source); err != nil {
			return err
		}

		for i := range targets {
			target := &targets[i]
			for _, f := range changed {
				s.applyField(target, source, f)
			}
			target.WeekISO = s.cal.WeekNumber(target.StartAt)
			if err := sessions.Update(ctx, target); err != nil {
				return err
			}
		}
		propagated = len(targets)

		return nil
	})
	if err != nil {
		return err
	}

	go s.publisher.PublishSessionUpdated(source, propagated)

	return nil
}

func (s *seriesService) applyField(target, source *model.Session, field model.SessionField) {
	switch field {
	case model.FieldStartAt:
		target.StartAt = s.cal.WithTimeOfDay(target.StartAt, source.StartAt)
	case model.FieldDurationMin:
		target.DurationMin = source.DurationMin
	case model.FieldCategoryID:
		target.CategoryID = source.CategoryID
	case model.FieldLocationID:
		target.LocationID = source.LocationID
	case model.FieldNotes:
		target.Notes = source.Notes
	case model.FieldMinCoaches:
		target.MinCoaches = source.MinCoaches
	case model.FieldConstraintTag:
		target.ConstraintTag = source.ConstraintTag
	case model.FieldIsCancelled:
		target.IsCancelled = source.IsCancelled
	case model.FieldIsLocked:
		target.IsLocked = source.IsLocked
	}
}

// PropagateRoster replicates a roster edit made on one session onto every
// later session of the same series. prior and post are the session's full
// assignment sets immediately before and after the edit; the edited
// session itself is never touched here.
func (s *seriesService) PropagateRoster(ctx context.Context, prior, post []model.CoachAssignment) error {
	if len(prior) == 0 && len(post) == 0 {
		return nil
	}

	ref := prior
	if len(post) > 0 {
		ref = post
	}
	pivot, err := s.sessions.FindByID(ctx, ref[0].SessionID)
	if err != nil {
		return err
	}
	if pivot == nil {
		return ErrSessionNotFound
	}
	if pivot.RecurrenceID == nil {
		return ErrNotInSeries
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.propagateRoster(ctx, s.sessions.WithTx(tx), s.assignments.WithTx(tx), pivot, prior, post)
	})
	if err != nil {
		return err
	}

	go s.publisher.PublishRosterUpdated(pivot, len(post))

	return nil
}

// propagateRoster runs the three propagation phases against tx-bound
// repositories. The order is fixed: removals, then field updates on kept
// coaches, then additions — the addition phase deletes stray rows for its
// own coach and must not undo the earlier phases.
func (s *seriesService) propagateRoster(
	ctx context.Context,
	sessions repository.SessionRepository,
	assignments repository.AssignmentRepository,
	pivot *model.Session,
	prior, post []model.CoachAssignment,
) error {
	recurrenceID := *pivot.RecurrenceID
	pivotAt := pivot.StartAt

	priorByCoach := make(map[uuid.UUID]*model.CoachAssignment, len(prior))
	for i := range prior {
		priorByCoach[prior[i].CoachID] = &prior[i]
	}
	postByCoach := make(map[uuid.UUID]*model.CoachAssignment, len(post))
	for i := range post {
		postByCoach[post[i].CoachID] = &post[i]
	}

	var removed, kept, added []uuid.UUID
	for cid := range priorByCoach {
		if _, ok := postByCoach[cid]; ok {
			kept = append(kept, cid)
		} else {
			removed = append(removed, cid)
		}
	}
	for cid := range postByCoach {
		if _, ok := priorByCoach[cid]; !ok {
			added = append(added, cid)
		}
	}
	sortCoachIDs(removed)
	sortCoachIDs(kept)
	sortCoachIDs(added)

	for _, cid := range removed {
		keep := []uuid.UUID{priorByCoach[cid].ID}
		if _, err := assignments.DeleteForCoachInSeriesFrom(ctx, cid, recurrenceID, pivotAt, keep); err != nil {
			return err
		}
	}

	for _, cid := range kept {
		diff := model.DiffAssignments(priorByCoach[cid], postByCoach[cid])
		if diff.IsZero() {
			continue
		}
		if _, err := assignments.UpdateForCoachInSeriesFrom(ctx, cid, recurrenceID, pivotAt, priorByCoach[cid].ID, diff); err != nil {
			return err
		}
	}

	if len(added) > 0 {
		targets, err := sessions.ListBySeriesFrom(ctx, recurrenceID, pivotAt, pivot.ID)
		if err != nil {
			return err
		}
		for _, cid := range added {
			src := postByCoach[cid]
			// De-duplicate before cloning so the unique (session, coach)
			// constraint can never trip on a stray row.
			keep := []uuid.UUID{src.ID}
			if _, err := assignments.DeleteForCoachInSeriesFrom(ctx, cid, recurrenceID, pivotAt, keep); err != nil {
				return err
			}
			for i := range targets {
				if _, err := assignments.Create(ctx, src.CloneFor(targets[i].ID)); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// ReplaceRoster applies the desired roster to one session and, when the
// session belongs to a series, propagates the resulting diff onto all
// later occurrences — pivot edit and propagation in a single transaction.
func (s *seriesService) ReplaceRoster(ctx context.Context, sessionID uuid.UUID, desired []RosterEntry) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	prior, err := s.assignments.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		assignments := s.assignments.WithTx(tx)

		desiredByCoach := make(map[uuid.UUID]RosterEntry, len(desired))
		for _, d := range desired {
			desiredByCoach[d.CoachID] = d
		}
		priorByCoach := make(map[uuid.UUID]*model.CoachAssignment, len(prior))
		for i := range prior {
			priorByCoach[prior[i].CoachID] = &prior[i]
		}

		post := make([]model.CoachAssignment, 0, len(desired))

		for i := range prior {
			row := prior[i]
			d, ok := desiredByCoach[row.CoachID]
			if !ok {
				if err := assignments.Delete(ctx, row.ID); err != nil {
					return err
				}
				continue
			}
			updated := row
			updated.Status = d.Status
			updated.Role = d.Role
			if updated.Status != row.Status || updated.Role != row.Role {
				if err := assignments.Update(ctx, &updated); err != nil {
					return err
				}
			}
			post = append(post, updated)
		}

		for _, d := range desired {
			if _, ok := priorByCoach[d.CoachID]; ok {
				continue
			}
			a := &model.CoachAssignment{
				SessionID: sessionID,
				CoachID:   d.CoachID,
				Status:    d.Status,
				Role:      d.Role,
			}
			if a.Status == "" {
				a.Status = model.AssignmentConfirmed
			}
			if _, err := assignments.Create(ctx, a); err != nil {
				return err
			}
			post = append(post, *a)
		}

		if session.RecurrenceID == nil {
			return nil
		}

		return s.propagateRoster(ctx, sessions, assignments, session, prior, post)
	})
	if err != nil {
		return err
	}

	go s.publisher.PublishRosterUpdated(session, len(desired))

	return nil
}

func sortCoachIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}
