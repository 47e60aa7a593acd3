package engine

import (
	"testing"
	"time"

	"chronorise/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
var (
	monday0700    = time.Date(2024, 1, 1, 7, 0, 0, 0, time.Local)
	monday070030  = time.Date(2024, 1, 1, 7, 0, 30, 0, time.Local)
	tuesday0700   = time.Date(2024, 1, 2, 7, 0, 0, 0, time.Local)
	wednesday0700 = time.Date(2024, 1, 3, 7, 0, 0, 0, time.Local)
)

func weekdayAlarm() *models.Alarm {
	return &models.Alarm{
		ID:       "a1",
		Time:     "07:00",
		Label:    "Workout",
		Days:     []int{1, 3, 5},
		IsActive: true,
	}
}

func TestClockString_PadsToMinute(t *testing.T) {
	assert.Equal(t, "07:00", ClockString(monday0700))
	assert.Equal(t, "07:00", ClockString(monday070030))
	assert.Equal(t, "23:58", ClockString(time.Date(2024, 1, 1, 23, 58, 59, 0, time.Local)))
}

func TestDayMarker_ChangesAtMidnight(t *testing.T) {
	assert.Equal(t, "2024-01-01", DayMarker(monday0700))
	assert.Equal(t, "2024-01-01", DayMarker(time.Date(2024, 1, 1, 23, 59, 59, 0, time.Local)))
	assert.Equal(t, "2024-01-02", DayMarker(time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)))
}

func TestWeekday_SundayIsZero(t *testing.T) {
	sunday := time.Date(2024, 1, 7, 12, 0, 0, 0, time.Local)
	assert.Equal(t, 0, Weekday(sunday))
	assert.Equal(t, 1, Weekday(monday0700))
}

func TestEvaluate_MatchesActiveAlarmOnScheduledDay(t *testing.T) {
	alarm := weekdayAlarm()
	got := Evaluate(monday0700, []*models.Alarm{alarm}, false)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
}

func TestEvaluate_InactiveNeverTriggers(t *testing.T) {
	alarm := weekdayAlarm()
	alarm.IsActive = false
	assert.Nil(t, Evaluate(monday0700, []*models.Alarm{alarm}, false))
}

func TestEvaluate_OccupiedSuppressesAll(t *testing.T) {
	alarm := weekdayAlarm()
	assert.Nil(t, Evaluate(monday0700, []*models.Alarm{alarm}, true))
}

func TestEvaluate_TimeMismatch(t *testing.T) {
	alarm := weekdayAlarm()
	at := time.Date(2024, 1, 1, 7, 1, 0, 0, time.Local)
	assert.Nil(t, Evaluate(at, []*models.Alarm{alarm}, false))
}

func TestEvaluate_WeekdayRecurrence(t *testing.T) {
	alarm := weekdayAlarm()

	// Monday 07:00:00 triggers.
	got := Evaluate(monday0700, []*models.Alarm{alarm}, false)
	require.NotNil(t, got)
	alarm.LastTriggered = DayMarker(monday0700)

	// Same Monday 07:00:30: already triggered today.
	assert.Nil(t, Evaluate(monday070030, []*models.Alarm{alarm}, false))

	// Tuesday 07:00: day not in set.
	assert.Nil(t, Evaluate(tuesday0700, []*models.Alarm{alarm}, false))

	// Wednesday 07:00 triggers again.
	got = Evaluate(wednesday0700, []*models.Alarm{alarm}, false)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
}

func TestEvaluate_OneTimeAlarmBecomesDormant(t *testing.T) {
	alarm := &models.Alarm{
		ID:       "once",
		Time:     "06:30",
		Days:     []int{},
		IsActive: true,
	}
	at := time.Date(2024, 1, 1, 6, 30, 0, 0, time.Local)

	got := Evaluate(at, []*models.Alarm{alarm}, false)
	require.NotNil(t, got)
	alarm.LastTriggered = DayMarker(at)

	// Same day: suppressed by the once-per-day guard.
	assert.Nil(t, Evaluate(at.Add(30*time.Second), []*models.Alarm{alarm}, false))

	// On a later day the stale marker no longer matches, so the evaluator
	// alone would pick it again. Keeping one-time alarms dormant is the
	// caller's concern, not the evaluator's.
	next := at.AddDate(0, 0, 1)
	got = Evaluate(next, []*models.Alarm{alarm}, false)
	require.NotNil(t, got)
}

func TestEvaluate_CollectionOrderTieBreak(t *testing.T) {
	first := &models.Alarm{ID: "first", Time: "07:00", Days: []int{}, IsActive: true}
	second := &models.Alarm{ID: "second", Time: "07:00", Days: []int{}, IsActive: true}

	got := Evaluate(monday0700, []*models.Alarm{first, second}, false)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)

	// With the first one spent, the second wins.
	first.LastTriggered = DayMarker(monday0700)
	got = Evaluate(monday0700, []*models.Alarm{first, second}, false)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.ID)
}

func TestEvaluate_EmptyCollection(t *testing.T) {
	assert.Nil(t, Evaluate(monday0700, nil, false))
}
