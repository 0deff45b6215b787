package model

// SessionField identifies one propagatable scalar field of a Session.
// Propagation iterates an explicit set of these instead of reflecting over
// struct fields; each identifier carries its own copy rule in the service
// layer (start_at keeps the target's date and takes the source's
// time-of-day, everything else is copied verbatim).
type SessionField string

const (
	FieldStartAt       SessionField = "start_at"
	FieldDurationMin   SessionField = "duration_min"
	FieldCategoryID    SessionField = "category_id"
	FieldLocationID    SessionField = "location_id"
	FieldNotes         SessionField = "notes"
	FieldMinCoaches    SessionField = "min_coaches"
	FieldConstraintTag SessionField = "constraint_tag"
	FieldIsCancelled   SessionField = "is_cancelled"
	FieldIsLocked      SessionField = "is_locked"
)

func (f SessionField) Valid() bool {
	switch f {
	case FieldStartAt, FieldDurationMin, FieldCategoryID, FieldLocationID,
		FieldNotes, FieldMinCoaches, FieldConstraintTag, FieldIsCancelled,
		FieldIsLocked:
		return true
	}
	return false
}
