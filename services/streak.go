package services

import "time"

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AdvanceStreak applies one completion to the streak counters: same-day
// activity keeps the streak, consecutive-day activity extends it, and any
// gap restarts at 1. Returns the new (current, longest) pair.
func AdvanceStreak(current, longest int, lastActivity *time.Time, now time.Time) (int, int) {
	next := 1
	if lastActivity != nil {
		switch {
		case sameDay(*lastActivity, now):
			next = current
			if next < 1 {
				next = 1
			}
		case sameDay(lastActivity.AddDate(0, 0, 1), now):
			next = current + 1
		}
	}

	if next > longest {
		longest = next
	}
	return next, longest
}

// StreakExpired reports whether a streak should be reset to zero: the last
// activity happened before yesterday, so today can no longer continue it.
func StreakExpired(lastActivity *time.Time, now time.Time) bool {
	if lastActivity == nil {
		return false
	}
	if sameDay(*lastActivity, now) || sameDay(lastActivity.AddDate(0, 0, 1), now) {
		return false
	}
	return lastActivity.Before(now)
}
