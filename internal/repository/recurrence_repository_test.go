package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"club-service/internal/model"
	repo "club-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresRecurrenceRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresRecurrenceRepository(sqlxDB)

	id := uuid.New()
	end := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO recurrences (mode, end_date) VALUES ($1, $2) RETURNING id, created_at`)).
		WithArgs(model.RecurrenceSameType, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))

	rec, err := r.Create(context.Background(), &model.Recurrence{Mode: model.RecurrenceSameType, EndDate: end})
	require.NoError(t, err)
	require.Equal(t, id, rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecurrenceRepository_FindByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresRecurrenceRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM recurrences WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	rec, err := r.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}
