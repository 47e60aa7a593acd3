package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"chronorise/internal/models"
	"chronorise/internal/services"
	"chronorise/internal/structures"
	"chronorise/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ringerConfig() *structures.Config {
	return &structures.Config{
		Alarms:   structures.AlarmsConfig{SnoozeFor: 5 * time.Minute},
		Briefing: structures.BriefingConfig{Timeout: time.Second},
	}
}

func newTestRinger(briefer *testutil.MockBriefer) (*Ringer, services.AlarmServiceInterface, *testutil.MockSound, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	svc := services.NewAlarmService(&testutil.MockPersister{}, logger)
	sound := &testutil.MockSound{}
	metrics := &testutil.MockMetrics{}
	r := NewRinger(ringerConfig(), logger, svc, sound, briefer, metrics).(*Ringer)
	return r, svc, sound, metrics
}

func testAlarm(useAI bool) *models.Alarm {
	return &models.Alarm{
		ID:       "a1",
		Time:     "07:00",
		Label:    "Workout",
		Days:     []int{1},
		IsActive: true,
		UseAI:    useAI,
	}
}

func TestRinger_TriggerEntersRinging(t *testing.T) {
	r, _, sound, _ := newTestRinger(&testutil.MockBriefer{})

	r.Trigger(testAlarm(false))

	assert.True(t, r.Occupied())
	status := r.Status()
	assert.True(t, status.Ringing)
	require.NotNil(t, status.Alarm)
	assert.Equal(t, "a1", status.Alarm.ID)
	starts, _, _ := sound.Counts()
	assert.Equal(t, 1, starts)
}

func TestRinger_TriggerWhileRingingIsDropped(t *testing.T) {
	r, _, _, _ := newTestRinger(&testutil.MockBriefer{})

	r.Trigger(testAlarm(false))
	other := testAlarm(false)
	other.ID = "a2"
	r.Trigger(other)

	assert.Equal(t, "a1", r.Status().Alarm.ID)
}

func TestRinger_DismissIsIdempotent(t *testing.T) {
	r, _, sound, metrics := newTestRinger(&testutil.MockBriefer{})

	r.Trigger(testAlarm(false))
	assert.True(t, r.Dismiss())
	assert.False(t, r.Dismiss())

	assert.False(t, r.Occupied())
	_, stops, _ := sound.Counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, metrics.Dismissals)
}

func TestRinger_SnoozeCreatesOneTimeFollowUp(t *testing.T) {
	r, svc, sound, metrics := newTestRinger(&testutil.MockBriefer{})
	now := time.Date(2024, 1, 1, 7, 0, 30, 0, time.Local)

	r.Trigger(testAlarm(true))
	assert.True(t, r.Snooze(now))

	assert.False(t, r.Occupied())
	_, stops, _ := sound.Counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, metrics.Snoozes)

	alarms := svc.List()
	require.Len(t, alarms, 1)
	created := alarms[0]
	assert.Equal(t, "07:05", created.Time)
	assert.Equal(t, "Snooze: Workout", created.Label)
	assert.Empty(t, created.Days)
	assert.True(t, created.IsActive)
	assert.False(t, created.UseAI)
	assert.NotEqual(t, "a1", created.ID)
}

func TestRinger_SnoozeOnIdleIsNoop(t *testing.T) {
	r, svc, sound, _ := newTestRinger(&testutil.MockBriefer{})

	assert.False(t, r.Snooze(time.Now()))
	assert.Empty(t, svc.List())
	_, stops, _ := sound.Counts()
	assert.Zero(t, stops)
}

func TestRinger_DoubleSnoozeCreatesSingleAlarm(t *testing.T) {
	r, svc, _, _ := newTestRinger(&testutil.MockBriefer{})

	r.Trigger(testAlarm(false))
	assert.True(t, r.Snooze(time.Now()))
	assert.False(t, r.Snooze(time.Now()))

	assert.Len(t, svc.List(), 1)
}

func TestRinger_BriefingApplied(t *testing.T) {
	briefer := &testutil.MockBriefer{Msg: "Up and at them!"}
	r, _, _, _ := newTestRinger(briefer)

	r.Trigger(testAlarm(true))

	assert.Eventually(t, func() bool {
		status := r.Status()
		return status.Briefing == "Up and at them!" && !status.Generating
	}, time.Second, 5*time.Millisecond)
}

func TestRinger_BriefingFailureFallsBack(t *testing.T) {
	briefer := &testutil.MockBriefer{Err: errors.New("boom")}
	r, _, _, metrics := newTestRinger(briefer)
	alarm := testAlarm(true)

	r.Trigger(alarm)

	assert.Eventually(t, func() bool {
		return r.Status().Briefing == "fallback at 07:00"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, metrics.BriefingFails)
}

func TestRinger_StaleBriefingDiscardedAfterDismiss(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	briefer := &testutil.MockBriefer{Msg: "late news", Block: block, Started: started}
	r, _, _, _ := newTestRinger(briefer)

	r.Trigger(testAlarm(true))
	<-started
	require.True(t, r.Dismiss())
	close(block)

	// The late result must neither reopen the ringing state nor leave a
	// message behind.
	time.Sleep(20 * time.Millisecond)
	status := r.Status()
	assert.False(t, status.Ringing)
	assert.Nil(t, status.Alarm)
	assert.Empty(t, status.Briefing)
}

// gateSound blocks inside Start until released and records the completion
// order of sound transitions.
type gateSound struct {
	mu      sync.Mutex
	events  []string
	block   chan struct{}
	started chan struct{}
	once    sync.Once
}

func (s *gateSound) Start() {
	s.once.Do(func() { close(s.started) })
	<-s.block
	s.mu.Lock()
	s.events = append(s.events, "start")
	s.mu.Unlock()
}

func (s *gateSound) Stop() {
	s.mu.Lock()
	s.events = append(s.events, "stop")
	s.mu.Unlock()
}

func (s *gateSound) Unlock() {}

func (s *gateSound) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func TestRinger_DismissDuringTriggerStopsSound(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := services.NewAlarmService(&testutil.MockPersister{}, logger)
	sound := &gateSound{block: make(chan struct{}), started: make(chan struct{})}
	r := NewRinger(ringerConfig(), logger, svc, sound, &testutil.MockBriefer{}, &testutil.MockMetrics{}).(*Ringer)

	trigDone := make(chan struct{})
	go func() {
		r.Trigger(testAlarm(false))
		close(trigDone)
	}()
	<-sound.started

	// Dismiss lands while Start is still in flight. It must not return with
	// the alert left playing on an idle controller.
	disDone := make(chan struct{})
	go func() {
		r.Dismiss()
		close(disDone)
	}()

	close(sound.block)
	<-trigDone
	<-disDone

	events := sound.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "stop", events[len(events)-1])
	assert.False(t, r.Occupied())
}

func TestRinger_NoBriefingRequestWithoutUseAI(t *testing.T) {
	briefer := &testutil.MockBriefer{Msg: "should not appear"}
	r, _, _, _ := newTestRinger(briefer)

	r.Trigger(testAlarm(false))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, briefer.Calls())
	assert.Empty(t, r.Status().Briefing)
}
