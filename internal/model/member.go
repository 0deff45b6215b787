package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a club licensee; coaches are members assigned to sessions.
type Member struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	IsHeadCoach bool       `db:"is_head_coach" json:"is_head_coach"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
