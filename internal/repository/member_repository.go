package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"club-service/internal/model"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	ListActive(ctx context.Context) ([]model.Member, error)
}

type postgresMemberRepository struct {
	db *sqlx.DB
}

func NewPostgresMemberRepository(db *sqlx.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	query := `SELECT * FROM members WHERE id = $1`
	err := r.db.GetContext(ctx, &member, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &member, nil
}

func (r *postgresMemberRepository) ListActive(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	query := `SELECT * FROM members WHERE is_active = true ORDER BY last_name, first_name`
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	if members == nil {
		members = []model.Member{}
	}

	return members, nil
}
