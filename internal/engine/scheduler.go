package engine

import (
	"sync"
	"time"

	"chronorise/internal/engine/interfaces"
	"chronorise/internal/models"
	"chronorise/internal/providers"
	"chronorise/internal/services"
	"chronorise/internal/structures"

	"github.com/roylee0704/gron"
)

// Scheduler is the clock source: a periodic tick evaluates the collection
// against the current time and drives the ringing transition. Mutations made
// by the store persist themselves, so the scheduler only saves on shutdown.
type Scheduler struct {
	conf        *structures.Config
	logger      providers.Logger
	service     services.AlarmServiceInterface
	ringer      RingerInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func NewScheduler(conf *structures.Config, logger providers.Logger, service services.AlarmServiceInterface, ringer RingerInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		conf:        conf,
		logger:      logger,
		service:     service,
		ringer:      ringer,
		fileManager: fileManager,
		metrics:     metrics,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.conf.Clock.TickInterval), func() {
		s.runTick(time.Now())
	})
	s.cron.Start()
}

// runTick is one evaluation of the current time against all alarms. The
// occupancy check, the lastTriggered stamp and the transition into Ringing
// happen under one lock, so a tick either sees an idle ringer and may produce
// a single trigger, or sees it ringing and produces none.
func (s *Scheduler) runTick(now time.Time) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.metrics.IncTicks()

	candidate := Evaluate(now, s.service.List(), s.ringer.Occupied())
	if candidate == nil {
		return
	}

	marker := DayMarker(now)
	s.service.SetTriggered(candidate.ID, marker)
	candidate.LastTriggered = marker
	s.ringer.Trigger(candidate)

	kind := "recurring"
	if len(candidate.Days) == 0 {
		kind = "once"
	}
	s.metrics.IncTriggers(kind)
	s.logger.Infof(providers.TypeTick, "Alarm %q (%s) triggered at %s", candidate.Label, candidate.ID, ClockString(now))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the persisted collection at startup. Malformed data degrades
// to an empty collection; the error is returned for logging only.
func (s *Scheduler) Restore() error {
	storage, err := s.fileManager.Load()
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Could not restore alarms, starting empty: %s", err)
		storage = models.NewStorage(nil)
	}
	s.service.Restore(storage)
	return err
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting alarms to file...")
	start := time.Now()
	err := s.fileManager.Save(s.service.Snapshot())
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting alarms: %s", err)
		return err
	}
	return nil
}
