package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConstraintAll   = "all"
	ConstraintYouth = "youth"
	ConstraintAdult = "adult"
	ConstraintTeam  = "team"
)

// Session is one scheduled coaching event. A session optionally belongs to
// a Recurrence; every occurrence of a series is a structural clone of the
// anchor except for its start timestamp and identity.
type Session struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CategoryID    *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	LocationID    *uuid.UUID `db:"location_id" json:"location_id,omitempty"`
	StartAt       time.Time  `db:"start_at" json:"start_at"`
	DurationMin   int        `db:"duration_min" json:"duration_min"`
	Notes         string     `db:"notes" json:"notes"`
	MinCoaches    int        `db:"min_coaches" json:"min_coaches"`
	ConstraintTag string     `db:"constraint_tag" json:"constraint_tag"`
	RecurrenceID  *uuid.UUID `db:"recurrence_id" json:"recurrence_id,omitempty"`
	IsCancelled   bool       `db:"is_cancelled" json:"is_cancelled"`
	IsLocked      bool       `db:"is_locked" json:"is_locked"`
	CreatedBy     *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	WeekISO       int        `db:"week_iso" json:"week_iso"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// CloneAt returns a brand-new occurrence value with every field copied
// except identity and timestamps, starting at the given instant. The
// receiver is never reused for the new row.
func (s *Session) CloneAt(startAt time.Time) *Session {
	clone := *s
	clone.ID = uuid.Nil
	clone.StartAt = startAt
	clone.WeekISO = 0
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}
