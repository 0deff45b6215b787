package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssignmentConfirmed = "confirmed"
	AssignmentWithdrawn = "withdrawn"
)

// CoachAssignment binds one coach to one session. At most one row may
// exist per (session, coach) pair; the schema enforces it.
type CoachAssignment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	CoachID   uuid.UUID `db:"coach_id" json:"coach_id"`
	Status    string    `db:"status" json:"status"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CloneFor returns a new assignment value for another session, keeping the
// coach and its editable fields but dropping identity and created_at.
func (a *CoachAssignment) CloneFor(sessionID uuid.UUID) *CoachAssignment {
	clone := *a
	clone.ID = uuid.Nil
	clone.SessionID = sessionID
	clone.CreatedAt = time.Time{}
	return &clone
}

// AssignmentOverride is the field-level diff between two assignment rows
// for the same coach. Identity, session and created_at never participate.
type AssignmentOverride struct {
	Status *string
	Role   *string
}

func (o AssignmentOverride) IsZero() bool {
	return o.Status == nil && o.Role == nil
}

// DiffAssignments compares the editable fields of two rows and returns the
// values that changed between before and after.
func DiffAssignments(before, after *CoachAssignment) AssignmentOverride {
	var o AssignmentOverride
	if before.Status != after.Status {
		o.Status = &after.Status
	}
	if before.Role != after.Role {
		o.Role = &after.Role
	}
	return o
}
