package schedule

import "time"

// CancellationAllowed applies the cancellation-window rule. Staff and
// instructors may cancel at any time. Students must leave at least
// thresholdHours between now and the lesson start; a lesson starting in
// exactly thresholdHours may still be cancelled.
func CancellationAllowed(role Role, now, startAt time.Time, thresholdHours int) bool {
	if role != RoleStudent {
		return true
	}
	return !startAt.Before(now.Add(time.Duration(thresholdHours) * time.Hour))
}

// HoursUntil returns the hours between now and startAt, fractional and
// negative once the lesson has started.
func HoursUntil(now, startAt time.Time) float64 {
	return startAt.Sub(now).Hours()
}
