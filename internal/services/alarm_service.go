package services

import (
	"sync"
	"time"

	"chronorise/internal/models"
	"chronorise/internal/providers"

	"github.com/google/uuid"
)

// PersisterInterface writes the whole collection out after a mutation.
// Implemented by the engine's file manager.
type PersisterInterface interface {
	Save(storage *models.Storage) error
}

// AlarmServiceInterface is the single owner of the alarm collection. Every
// mutation is a synchronous whole-collection replace-and-persist; unknown ids
// are silent no-ops. Collection order is insertion order and doubles as the
// trigger tie-break.
type AlarmServiceInterface interface {
	List() []*models.Alarm
	Get(id string) (*models.Alarm, bool)
	Create(input *models.AlarmInput) (*models.Alarm, error)
	Update(id string, input *models.AlarmInput) error
	ToggleActive(id string)
	Delete(id string)
	SetTriggered(id, dayMarker string)
	Snapshot() *models.Storage
	Restore(storage *models.Storage)
	Count() int
	ActiveCount() int
}

type AlarmService struct {
	mu        sync.Mutex
	alarms    []*models.Alarm
	persister PersisterInterface
	logger    providers.Logger
}

func NewAlarmService(persister PersisterInterface, logger providers.Logger) AlarmServiceInterface {
	return &AlarmService{
		alarms:    make([]*models.Alarm, 0),
		persister: persister,
		logger:    logger,
	}
}

func (s *AlarmService) List() []*models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Alarm, len(s.alarms))
	for i, a := range s.alarms {
		out[i] = a.Clone()
	}
	return out
}

func (s *AlarmService) Get(id string) (*models.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.find(id); a != nil {
		return a.Clone(), true
	}
	return nil, false
}

func (s *AlarmService) Create(input *models.AlarmInput) (*models.Alarm, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, err
	}

	alarm := &models.Alarm{
		ID:        uuid.NewString(),
		Time:      *input.Time,
		Label:     models.DefaultLabel,
		Days:      []int{},
		IsActive:  true,
		CreatedAt: time.Now().UnixMilli(),
	}
	if input.Label != nil && *input.Label != "" {
		alarm.Label = *input.Label
	}
	if input.Days != nil {
		alarm.Days = *input.Days
	}
	if input.IsActive != nil {
		alarm.IsActive = *input.IsActive
	}
	if input.UseAI != nil {
		alarm.UseAI = *input.UseAI
	}

	s.mu.Lock()
	s.alarms = append(s.alarms, alarm)
	s.persistLocked()
	s.mu.Unlock()

	return alarm.Clone(), nil
}

func (s *AlarmService) Update(id string, input *models.AlarmInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return nil
	}
	if input.Time != nil {
		alarm.Time = *input.Time
	}
	if input.Label != nil {
		alarm.Label = *input.Label
		if alarm.Label == "" {
			alarm.Label = models.DefaultLabel
		}
	}
	if input.Days != nil {
		alarm.Days = *input.Days
	}
	if input.IsActive != nil {
		alarm.IsActive = *input.IsActive
	}
	if input.UseAI != nil {
		alarm.UseAI = *input.UseAI
	}
	s.persistLocked()
	return nil
}

func (s *AlarmService) ToggleActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return
	}
	alarm.IsActive = !alarm.IsActive
	s.persistLocked()
}

func (s *AlarmService) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.alarms {
		if a.ID == id {
			s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

func (s *AlarmService) SetTriggered(id, dayMarker string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return
	}
	alarm.LastTriggered = dayMarker
	s.persistLocked()
}

func (s *AlarmService) Snapshot() *models.Storage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AlarmService) Restore(storage *models.Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarms = make([]*models.Alarm, 0)
	if storage == nil {
		return
	}
	for _, a := range storage.Alarms {
		if a == nil || a.ID == "" || !models.ValidClockString(a.Time) {
			s.logger.Warnf(providers.TypeApp, "Dropping malformed alarm record on restore")
			continue
		}
		if days, err := models.NormalizeDays(a.Days); err == nil {
			a.Days = days
		} else {
			a.Days = []int{}
		}
		s.alarms = append(s.alarms, a)
	}
}

func (s *AlarmService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alarms)
}

func (s *AlarmService) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.alarms {
		if a.IsActive {
			n++
		}
	}
	return n
}

// find must be called with s.mu held.
func (s *AlarmService) find(id string) *models.Alarm {
	for _, a := range s.alarms {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// snapshotLocked must be called with s.mu held.
func (s *AlarmService) snapshotLocked() *models.Storage {
	alarms := make([]*models.Alarm, len(s.alarms))
	for i, a := range s.alarms {
		alarms[i] = a.Clone()
	}
	return models.NewStorage(alarms)
}

// persistLocked writes the collection out after a mutation. Save failures are
// logged and not retried; the in-memory collection stays authoritative.
func (s *AlarmService) persistLocked() {
	if err := s.persister.Save(s.snapshotLocked()); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting alarms: %s", err)
	}
}
