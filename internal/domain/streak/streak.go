// Package streak computes the consecutive-day activity streak.
package streak

import (
	"math"
	"time"
)

// DateLayout is the calendar-day granularity used for streak dates.
const DateLayout = "2006-01-02"

// State is the persisted streak state. An empty LastActivityDate with a
// zero CurrentStreak means no activity has been recorded yet.
type State struct {
	LastActivityDate string `json:"lastActivityDate"`
	CurrentStreak    int    `json:"currentStreak"`
}

// Advance applies one day of activity to the state, evaluated against
// today's local calendar date. Repeat activity on the same day is a no-op;
// activity on the day after the last one extends the streak; anything else
// (a gap of two or more days, no prior date, or a date in the future)
// starts a fresh streak of 1.
func Advance(s State, now time.Time) State {
	today := now.Format(DateLayout)
	if s.LastActivityDate == today {
		return s
	}

	if daysBetween(s.LastActivityDate, today) == 1 {
		return State{LastActivityDate: today, CurrentStreak: s.CurrentStreak + 1}
	}
	return State{LastActivityDate: today, CurrentStreak: 1}
}

// daysBetween returns the whole-day difference from one date string to
// another. Both are parsed as local midnight and the delta is rounded,
// which keeps a 23- or 25-hour DST day from skewing the count. Returns 0
// when either date fails to parse.
func daysBetween(from, to string) int {
	a, err := time.ParseInLocation(DateLayout, from, time.Local)
	if err != nil {
		return 0
	}
	b, err := time.ParseInLocation(DateLayout, to, time.Local)
	if err != nil {
		return 0
	}
	return int(math.Round(b.Sub(a).Hours() / 24))
}
