package calendar

import (
	"iter"
	"time"
)

// Occurrences yields the future instants of a weekly series, lazily and in
// ascending order. The first candidate is one week after startAt; emission
// continues while the candidate's civil date is on or before endDate.
//
// Steps are wall-clock weeks in the civil zone, so a 18:00 session stays
// at 18:00 across DST changes. With sameParityOnly set, candidates whose
// ISO week parity differs from startAt's are skipped (advanced past, never
// emitted), so only the anchor's parity class ever appears.
//
// The sequence is single-pass; call Occurrences again to regenerate.
func (c *Calendar) Occurrences(startAt, endDate time.Time, sameParityOnly bool) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		startParity := c.WeekParity(startAt)
		end := c.DateOf(endDate)
		current := c.ToCivil(startAt).AddDate(0, 0, 7)

		for !c.DateOf(current).After(end) {
			if sameParityOnly {
				for c.WeekParity(current) != startParity {
					current = current.AddDate(0, 0, 7)
				}
				if c.DateOf(current).After(end) {
					return
				}
			}
			if !yield(current) {
				return
			}
			current = current.AddDate(0, 0, 7)
		}
	}
}
