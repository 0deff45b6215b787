package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/model"
)

type AssignmentRepository interface {
	WithTx(tx *sqlx.Tx) AssignmentRepository
	Create(ctx context.Context, assignment *model.CoachAssignment) (*model.CoachAssignment, error)
	Update(ctx context.Context, assignment *model.CoachAssignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CoachAssignment, error)
	// DeleteForCoachInSeriesFrom removes every assignment of one coach on
	// sessions of the series starting at or after the pivot, keeping the
	// listed rows untouched. Returns the number of deleted rows.
	DeleteForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, keep []uuid.UUID) (int64, error)
	// UpdateForCoachInSeriesFrom overwrites the changed fields of every
	// assignment of one coach in the series window, excluding the pivot
	// session's own row.
	UpdateForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID, override model.AssignmentOverride) (int64, error)
}

type postgresAssignmentRepository struct {
	ext sqlx.ExtContext
}

func NewPostgresAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &postgresAssignmentRepository{ext: db}
}

func (r *postgresAssignmentRepository) WithTx(tx *sqlx.Tx) AssignmentRepository {
	return &postgresAssignmentRepository{ext: tx}
}

func (r *postgresAssignmentRepository) Create(ctx context.Context, assignment *model.CoachAssignment) (*model.CoachAssignment, error) {
	query := `
		INSERT INTO coach_assignments (session_id, coach_id, status, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	row := r.ext.QueryRowxContext(ctx, query, assignment.SessionID, assignment.CoachID, assignment.Status, assignment.Role)
	if err := row.Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *postgresAssignmentRepository) Update(ctx context.Context, assignment *model.CoachAssignment) error {
	query := `UPDATE coach_assignments SET status = $1, role = $2 WHERE id = $3`
	_, err := r.ext.ExecContext(ctx, query, assignment.Status, assignment.Role, assignment.ID)
	return err
}

func (r *postgresAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM coach_assignments WHERE id = $1`
	_, err := r.ext.ExecContext(ctx, query, id)
	return err
}

func (r *postgresAssignmentRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CoachAssignment, error) {
	var assignments []model.CoachAssignment
	query := `SELECT * FROM coach_assignments WHERE session_id = $1 ORDER BY created_at ASC`
	err := sqlx.SelectContext(ctx, r.ext, &assignments, query, sessionID)
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *postgresAssignmentRepository) DeleteForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, keep []uuid.UUID) (int64, error) {
	query := `
		DELETE FROM coach_assignments
		WHERE coach_id = $1 AND session_id IN (
			SELECT id FROM sessions WHERE recurrence_id = $2 AND start_at >= $3
		)
	`
	args := []interface{}{coachID, recurrenceID, pivot}

	if len(keep) > 0 {
		placeholders := make([]string, len(keep))
		for i, id := range keep {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(placeholders, ", "))
	}

	res, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *postgresAssignmentRepository) UpdateForCoachInSeriesFrom(ctx context.Context, coachID, recurrenceID uuid.UUID, pivot time.Time, exclude uuid.UUID, override model.AssignmentOverride) (int64, error) {
	var setClauses []string
	var args []interface{}

	if override.Status != nil {
		args = append(args, *override.Status)
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if override.Role != nil {
		args = append(args, *override.Role)
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", len(args)))
	}

	if len(setClauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE coach_assignments
		SET %s
		WHERE coach_id = $%d AND id <> $%d AND session_id IN (
			SELECT id FROM sessions WHERE recurrence_id = $%d AND start_at >= $%d
		)
	`, strings.Join(setClauses, ", "), len(args)+1, len(args)+2, len(args)+3, len(args)+4)
	args = append(args, coachID, exclude, recurrenceID, pivot)

	res, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
