package service

import (
	"time"

	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

// Completion counters live on JST calendar days regardless of server zone
var jst = time.FixedZone("JST", 9*60*60)

// ApplyCounterReset zeroes stale completion counters of user in place and
// reports what changed. The daily counter resets when the last reset fell on
// an earlier JST date than now, the weekly one additionally when it fell
// before the current week's Monday. LastResetDate gets stamped with now in
// either branch, so repeating the call within one calendar day is a no-op.
func ApplyCounterReset(user *entity.User, now time.Time) (reset bool, weekly bool) {
	now = now.In(jst)
	today := dateOf(now)
	// Monday of the current week, weeks turn over Sunday -> Monday
	weekStart := today.AddDate(0, 0, -int((today.Weekday()+6)%7))
	last := user.LastResetDate
	if last == nil || dateOf(last.In(jst)).Before(today) {
		user.TasksCompletedToday = 0
		reset = true
		if last == nil || dateOf(last.In(jst)).Before(weekStart) {
			user.TasksCompletedThisWeek = 0
			weekly = true
		}
		stamp := now
		user.LastResetDate = &stamp
	}
	return reset, weekly
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
