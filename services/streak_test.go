package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	yesterday := date(2026, 8, 30)
	today := date(2026, 8, 31)
	lastWeek := date(2026, 8, 24)

	tests := []struct {
		name         string
		current      int
		longest      int
		lastActivity *time.Time
		wantCurrent  int
		wantLongest  int
	}{
		{"first ever completion", 0, 0, nil, 1, 1},
		{"same day keeps streak", 3, 5, &today, 3, 5},
		{"same day with zero current", 0, 5, &today, 1, 5},
		{"consecutive day extends", 3, 3, &yesterday, 4, 4},
		{"gap restarts at one", 9, 9, &lastWeek, 1, 9},
		{"longest is a high-water mark", 2, 7, &yesterday, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := AdvanceStreak(tt.current, tt.longest, tt.lastActivity, today)
			if current != tt.wantCurrent || longest != tt.wantLongest {
				t.Errorf("AdvanceStreak() = (%d, %d), want (%d, %d)",
					current, longest, tt.wantCurrent, tt.wantLongest)
			}
		})
	}
}

func TestStreakExpired(t *testing.T) {
	now := date(2026, 8, 31)
	yesterday := date(2026, 8, 30)
	twoDaysAgo := date(2026, 8, 29)

	if StreakExpired(nil, now) {
		t.Error("no activity yet — nothing to expire")
	}
	if StreakExpired(&now, now) {
		t.Error("activity today must not expire")
	}
	if StreakExpired(&yesterday, now) {
		t.Error("yesterday's activity can still be continued today")
	}
	if !StreakExpired(&twoDaysAgo, now) {
		t.Error("a two-day gap expires the streak")
	}
}
