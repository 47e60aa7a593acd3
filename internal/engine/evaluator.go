package engine

import (
	"time"

	"chronorise/internal/models"
)

// ClockString formats t at minute granularity, matching the stored alarm
// time representation. Seconds are deliberately ignored: triggers are
// minute-resolution.
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// DayMarker identifies the calendar day of t in local time. It is the value
// stamped into Alarm.LastTriggered and changes at local midnight.
func DayMarker(t time.Time) string {
	return t.Format("2006-01-02")
}

// Weekday returns t's day-of-week index with 0=Sunday, matching the stored
// weekday set.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// Evaluate decides whether any alarm should fire at now. It returns at most
// one alarm per call: the first one in collection order that is active, has
// not fired today, matches the current minute exactly and admits today's
// weekday. A ringing occupancy suppresses evaluation entirely, so no two
// triggers can ever coexist.
func Evaluate(now time.Time, alarms []*models.Alarm, occupied bool) *models.Alarm {
	if occupied {
		return nil
	}

	nowString := ClockString(now)
	today := DayMarker(now)
	weekday := Weekday(now)

	for _, alarm := range alarms {
		if !alarm.IsActive {
			continue
		}
		if alarm.LastTriggered == today {
			continue
		}
		if alarm.Time != nowString {
			continue
		}
		if !alarm.FiresOn(weekday) {
			continue
		}
		return alarm
	}
	return nil
}
