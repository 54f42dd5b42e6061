package streak_test

import (
	"testing"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/streak"
)

var day = time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local)

func TestAdvance_FirstActivity(t *testing.T) {
	s := streak.Advance(streak.State{}, day)

	if s.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", s.CurrentStreak)
	}
	if s.LastActivityDate != "2025-03-10" {
		t.Errorf("expected date 2025-03-10, got %q", s.LastActivityDate)
	}
}

func TestAdvance_SameDayIsIdempotent(t *testing.T) {
	s := streak.Advance(streak.State{}, day)
	later := day.Add(5 * time.Hour)

	again := streak.Advance(s, later)
	if again != s {
		t.Errorf("expected no change on repeat same-day activity, got %+v", again)
	}
}

func TestAdvance_NextDayIncrements(t *testing.T) {
	s := streak.State{LastActivityDate: "2025-03-10", CurrentStreak: 3}

	s = streak.Advance(s, day.AddDate(0, 0, 1))
	if s.CurrentStreak != 4 {
		t.Errorf("expected streak 4, got %d", s.CurrentStreak)
	}
	if s.LastActivityDate != "2025-03-11" {
		t.Errorf("expected date 2025-03-11, got %q", s.LastActivityDate)
	}
}

func TestAdvance_GapResets(t *testing.T) {
	s := streak.State{LastActivityDate: "2025-03-10", CurrentStreak: 7}

	s = streak.Advance(s, day.AddDate(0, 0, 3))
	if s.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1 after a gap, got %d", s.CurrentStreak)
	}
}

func TestAdvance_FutureDateResets(t *testing.T) {
	s := streak.State{LastActivityDate: "2025-03-15", CurrentStreak: 7}

	s = streak.Advance(s, day)
	if s.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1 for a future last-activity date, got %d", s.CurrentStreak)
	}
	if s.LastActivityDate != "2025-03-10" {
		t.Errorf("expected date rewritten to today, got %q", s.LastActivityDate)
	}
}

func TestAdvance_UnparseableDateResets(t *testing.T) {
	s := streak.State{LastActivityDate: "not-a-date", CurrentStreak: 5}

	s = streak.Advance(s, day)
	if s.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", s.CurrentStreak)
	}
}
