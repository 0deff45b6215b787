package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/model"
)

type RecurrenceRepository interface {
	WithTx(tx *sqlx.Tx) RecurrenceRepository
	Create(ctx context.Context, rec *model.Recurrence) (*model.Recurrence, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recurrence, error)
}

type postgresRecurrenceRepository struct {
	ext sqlx.ExtContext
}

func NewPostgresRecurrenceRepository(db *sqlx.DB) RecurrenceRepository {
	return &postgresRecurrenceRepository{ext: db}
}

func (r *postgresRecurrenceRepository) WithTx(tx *sqlx.Tx) RecurrenceRepository {
	return &postgresRecurrenceRepository{ext: tx}
}

func (r *postgresRecurrenceRepository) Create(ctx context.Context, rec *model.Recurrence) (*model.Recurrence, error) {
	query := `
		INSERT INTO recurrences (mode, end_date)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	row := r.ext.QueryRowxContext(ctx, query, rec.Mode, rec.EndDate)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *postgresRecurrenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Recurrence, error) {
	var rec model.Recurrence
	query := `SELECT * FROM recurrences WHERE id = $1`
	err := sqlx.GetContext(ctx, r.ext, &rec, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &rec, nil
}
