package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/model"
)

type SessionRepository interface {
	// WithTx returns a view of the repository bound to the given
	// transaction. The receiver is left untouched.
	WithTx(tx *sqlx.Tx) SessionRepository
	Create(ctx context.Context, session *model.Session) (*model.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	ListBySeriesFrom(ctx context.Context, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID) ([]model.Session, error)
	ListUpcoming(ctx context.Context, limit, offset int) ([]model.Session, error)
}

type postgresSessionRepository struct {
	ext sqlx.ExtContext
}

func NewPostgresSessionRepository(db *sqlx.DB) SessionRepository {
	return &postgresSessionRepository{ext: db}
}

func (r *postgresSessionRepository) WithTx(tx *sqlx.Tx) SessionRepository {
	return &postgresSessionRepository{ext: tx}
}

func (r *postgresSessionRepository) Create(ctx context.Context, session *model.Session) (*model.Session, error) {
	query := `
		INSERT INTO sessions (category_id, location_id, start_at, duration_min, notes, min_coaches, constraint_tag, recurrence_id, is_cancelled, is_locked, created_by, week_iso)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	row := r.ext.QueryRowxContext(ctx, query,
		session.CategoryID, session.LocationID, session.StartAt, session.DurationMin,
		session.Notes, session.MinCoaches, session.ConstraintTag, session.RecurrenceID,
		session.IsCancelled, session.IsLocked, session.CreatedBy, session.WeekISO,
	)
	if err := row.Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}

	return session, nil
}

func (r *postgresSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var session model.Session
	query := `SELECT * FROM sessions WHERE id = $1`
	err := sqlx.GetContext(ctx, r.ext, &session, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *postgresSessionRepository) Update(ctx context.Context, session *model.Session) error {
	query := `
		UPDATE sessions
		SET category_id = $1, location_id = $2, start_at = $3, duration_min = $4, notes = $5, min_coaches = $6, constraint_tag = $7, recurrence_id = $8, is_cancelled = $9, is_locked = $10, week_iso = $11, updated_at = now()
		WHERE id = $12
	`

	_, err := r.ext.ExecContext(ctx, query,
		session.CategoryID, session.LocationID, session.StartAt, session.DurationMin,
		session.Notes, session.MinCoaches, session.ConstraintTag, session.RecurrenceID,
		session.IsCancelled, session.IsLocked, session.WeekISO, session.ID,
	)
	return err
}

// ListBySeriesFrom materializes every session of a series starting at or
// after the pivot, excluding the given session, ordered by start time.
// Callers mutate rows from this slice, never while re-evaluating a query.
func (r *postgresSessionRepository) ListBySeriesFrom(ctx context.Context, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID) ([]model.Session, error) {
	var sessions []model.Session
	query := `
		SELECT * FROM sessions
		WHERE recurrence_id = $1 AND start_at >= $2 AND id <> $3
		ORDER BY start_at ASC
	`
	err := sqlx.SelectContext(ctx, r.ext, &sessions, query, recurrenceID, pivot, exclude)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *postgresSessionRepository) ListUpcoming(ctx context.Context, limit, offset int) ([]model.Session, error) {
	var sessions []model.Session
	query := `
		SELECT * FROM sessions
		WHERE start_at > now()
		ORDER BY start_at ASC
		LIMIT $1 OFFSET $2
	`
	err := sqlx.SelectContext(ctx, r.ext, &sessions, query, limit, offset)
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []model.Session{}
	}

	return sessions, nil
}
