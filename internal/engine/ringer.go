package engine

import (
	"context"
	"sync"
	"time"

	"chronorise/internal/models"
	"chronorise/internal/providers"
	"chronorise/internal/services"
	"chronorise/internal/structures"
)

// RingingStatus is the externally visible snapshot of the ringing slot.
type RingingStatus struct {
	Ringing    bool          `json:"ringing"`
	Alarm      *models.Alarm `json:"alarm,omitempty"`
	Briefing   string        `json:"briefing,omitempty"`
	Generating bool          `json:"generating,omitempty"`
}

type RingerInterface interface {
	Occupied() bool
	Trigger(alarm *models.Alarm)
	Snooze(now time.Time) bool
	Dismiss() bool
	Status() *RingingStatus
}

// Ringer owns the single system-wide ringing slot. It drives the audible
// alert, requests a briefing message when asked to, and hands snoozed alarms
// back to the store. Dismiss and Snooze are idempotent: a second call on an
// idle ringer is a no-op and the sound is stopped exactly once.
type Ringer struct {
	conf    *structures.Config
	logger  providers.Logger
	service services.AlarmServiceInterface
	sound   providers.SoundInterface
	briefer providers.BriefingInterface
	metrics providers.MetricsProviderInterface

	mu         sync.Mutex
	current    *models.Alarm
	briefing   string
	generating bool
}

func NewRinger(conf *structures.Config, logger providers.Logger, service services.AlarmServiceInterface, sound providers.SoundInterface, briefer providers.BriefingInterface, metrics providers.MetricsProviderInterface) RingerInterface {
	return &Ringer{
		conf:    conf,
		logger:  logger,
		service: service,
		sound:   sound,
		briefer: briefer,
		metrics: metrics,
	}
}

func (r *Ringer) Occupied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Trigger transitions Idle -> Ringing. A trigger while already ringing is
// dropped; the evaluator suppresses matches while the slot is occupied, so
// this only defends against misuse. The sound transition happens under the
// slot lock: a Dismiss racing this call either sees the slot empty and
// no-ops, or waits until Start has landed and then stops it.
func (r *Ringer) Trigger(alarm *models.Alarm) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return
	}
	r.current = alarm.Clone()
	r.briefing = ""
	r.generating = alarm.UseAI

	r.metrics.SetRinging(true)
	r.sound.Start()

	if alarm.UseAI {
		go r.fetchBriefing(alarm.ID, alarm.Label, alarm.Time)
	}
}

// fetchBriefing runs off the tick timeline. The result is applied only if
// the same alarm is still ringing when it lands; anything arriving after a
// dismiss or snooze is discarded.
func (r *Ringer) fetchBriefing(alarmID, label, timeStr string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.conf.Briefing.Timeout)
	defer cancel()

	start := time.Now()
	msg, err := r.briefer.Generate(ctx, label, timeStr)
	r.metrics.ObserveBriefingDuration(time.Since(start))
	if err != nil {
		r.logger.Warnf(providers.TypeApp, "Briefing generation failed: %s", err)
		r.metrics.IncBriefingFailures()
		msg = r.briefer.Fallback(label, timeStr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.ID != alarmID {
		return
	}
	r.briefing = msg
	r.generating = false
}

func (r *Ringer) Dismiss() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return false
	}
	r.current = nil
	r.briefing = ""
	r.generating = false

	r.sound.Stop()
	r.metrics.SetRinging(false)
	r.metrics.IncDismissals()
	return true
}

// Snooze dismisses the ringing alarm and files a one-shot follow-up through
// the store.
func (r *Ringer) Snooze(now time.Time) bool {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return false
	}
	alarm := r.current
	r.current = nil
	r.briefing = ""
	r.generating = false

	r.sound.Stop()
	r.metrics.SetRinging(false)
	r.metrics.IncSnoozes()
	r.mu.Unlock()

	input := SnoozeInput(alarm, now, r.conf.Alarms.SnoozeFor)
	if _, err := r.service.Create(input); err != nil {
		r.logger.Errorf(providers.TypeApp, "Failed to create snooze alarm: %s", err)
		return true
	}
	r.logger.Infof(providers.TypeApp, "Snoozed %q until %s", alarm.Label, *input.Time)
	return true
}

func (r *Ringer) Status() *RingingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &RingingStatus{
		Ringing:    r.current != nil,
		Alarm:      r.current.Clone(),
		Briefing:   r.briefing,
		Generating: r.generating,
	}
}
