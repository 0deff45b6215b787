package model

import (
	"time"

	"github.com/google/uuid"
)

type RecurrenceMode string

const (
	// RecurrenceWeekly repeats every week.
	RecurrenceWeekly RecurrenceMode = "weekly"
	// RecurrenceSameType repeats only on weeks sharing the anchor's ISO
	// week parity, i.e. every other week-slot.
	RecurrenceSameType RecurrenceMode = "same_type"
)

func (m RecurrenceMode) Valid() bool {
	return m == RecurrenceWeekly || m == RecurrenceSameType
}

// Recurrence is the repeat policy shared by a chain of sessions. Mode and
// end date are never mutated once the series has been generated.
type Recurrence struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Mode      RecurrenceMode `db:"mode" json:"mode"`
	EndDate   time.Time      `db:"end_date" json:"end_date"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
