package engine

import (
	"time"

	"chronorise/internal/models"
)

// SnoozeLabelPrefix marks snooze-derived alarms in the list.
const SnoozeLabelPrefix = "Snooze: "

// SnoozeInput derives the one-shot alarm created when a ringing alarm is
// snoozed: it fires at now+d (wall clock, rolling over hour and day
// boundaries), runs once on any day and never requests a briefing. The new
// record re-enters through the normal store and evaluator path.
func SnoozeInput(alarm *models.Alarm, now time.Time, d time.Duration) *models.AlarmInput {
	at := ClockString(now.Add(d))
	label := SnoozeLabelPrefix + alarm.Label
	days := []int{}
	active := true
	useAI := false

	return &models.AlarmInput{
		Time:     &at,
		Label:    &label,
		Days:     &days,
		IsActive: &active,
		UseAI:    &useAI,
	}
}
