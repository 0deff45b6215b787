package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DefaultZone is the civil timezone used when CLUB_TZ is not set.
const DefaultZone = "Europe/Paris"

// ErrNoMatchingDate is returned when no date satisfies a weekday/parity
// search within the scan window.
var ErrNoMatchingDate = errors.New("no date matches the requested weekday and parity")

// Parity of an ISO week number.
type Parity int

const (
	ParityEven Parity = iota
	ParityOdd
)

func (p Parity) String() string {
	if p == ParityEven {
		return "even"
	}
	return "odd"
}

// Calendar anchors every date and week computation to one fixed civil
// timezone. All day-of-week, ISO-week and date-boundary logic in the
// service goes through a Calendar; nothing else reads the ambient zone.
type Calendar struct {
	loc *time.Location
}

func New(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

func NewFromName(name string) (*Calendar, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return &Calendar{loc: loc}, nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ToCivil converts any instant to the calendar's civil timezone.
// Timestamps parsed without zone information arrive here as UTC, which is
// exactly the assumption the store makes.
func (c *Calendar) ToCivil(t time.Time) time.Time {
	return t.In(c.loc)
}

// ISOWeek returns the ISO 8601 year and week number of the instant in
// civil time.
func (c *Calendar) ISOWeek(t time.Time) (year, week int) {
	return c.ToCivil(t).ISOWeek()
}

// WeekNumber is the ISO week number alone, as stored on each session row.
func (c *Calendar) WeekNumber(t time.Time) int {
	_, week := c.ISOWeek(t)
	return week
}

// WeekParity reports whether the instant falls in an even or odd ISO week.
func (c *Calendar) WeekParity(t time.Time) Parity {
	if c.WeekNumber(t)%2 == 0 {
		return ParityEven
	}
	return ParityOdd
}

// SameISOWeek reports whether two instants share the same ISO year and
// week in civil time.
func (c *Calendar) SameISOWeek(a, b time.Time) bool {
	ay, aw := c.ISOWeek(a)
	by, bw := c.ISOWeek(b)
	return ay == by && aw == bw
}

// DateOf truncates an instant to its civil calendar date (midnight in the
// calendar's zone).
func (c *Calendar) DateOf(t time.Time) time.Time {
	ct := c.ToCivil(t)
	return time.Date(ct.Year(), ct.Month(), ct.Day(), 0, 0, 0, 0, c.loc)
}

// SameCivilDate reports whether two instants fall on the same civil date.
func (c *Calendar) SameCivilDate(a, b time.Time) bool {
	return c.DateOf(a).Equal(c.DateOf(b))
}

// WithTimeOfDay keeps dt's civil date and replaces its clock (hour down to
// nanosecond) with tod's civil clock. This is the transform behind "change
// the hour for this and all following sessions".
func (c *Calendar) WithTimeOfDay(dt, tod time.Time) time.Time {
	d := c.ToCivil(dt)
	t := c.ToCivil(tod)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.loc)
}

// NextWeekdayOnOrAfter scans forward from the given date for the first
// civil date falling on the target weekday and, when parity is non-nil,
// in a week of that parity. Weekday+parity combinations always resolve
// within 14 days; the 21-day window is a safety margin, beyond which
// ErrNoMatchingDate is returned.
func (c *Calendar) NextWeekdayOnOrAfter(weekday time.Weekday, from time.Time, parity *Parity) (time.Time, error) {
	start := c.DateOf(from)
	for offset := 0; offset < 21; offset++ {
		candidate := start.AddDate(0, 0, offset)
		if candidate.Weekday() != weekday {
			continue
		}
		if parity == nil || c.WeekParity(candidate) == *parity {
			return candidate, nil
		}
	}
	return time.Time{}, ErrNoMatchingDate
}

// SeasonEnd returns July 31 of the running club season: the next July 31
// on or after the given instant.
func (c *Calendar) SeasonEnd(from time.Time) time.Time {
	d := c.ToCivil(from)
	cutoff := time.Date(d.Year(), time.July, 31, 0, 0, 0, 0, c.loc)
	if c.DateOf(d).After(cutoff) {
		cutoff = cutoff.AddDate(1, 0, 0)
	}
	return cutoff
}
