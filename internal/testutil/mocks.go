package testutil

import (
	"context"
	"sync"
	"time"

	"chronorise/internal/models"
	"chronorise/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.Logs...)
}

// MockCompressor passes data through unchanged so tests can write plain JSON
// fixtures.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockPersister implements services.PersisterInterface and records snapshots.
type MockPersister struct {
	mu    sync.Mutex
	Saved []*models.Storage
	Err   error
}

func (m *MockPersister) Save(storage *models.Storage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, storage)
	return m.Err
}

func (m *MockPersister) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

func (m *MockPersister) Last() *models.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return nil
	}
	return m.Saved[len(m.Saved)-1]
}

// MockSound implements providers.SoundInterface and counts calls.
type MockSound struct {
	mu          sync.Mutex
	StartCalls  int
	StopCalls   int
	UnlockCalls int
}

func (m *MockSound) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
}

func (m *MockSound) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
}

func (m *MockSound) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnlockCalls++
}

func (m *MockSound) Counts() (starts, stops, unlocks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StartCalls, m.StopCalls, m.UnlockCalls
}

// MockBriefer implements providers.BriefingInterface. When Block is set,
// Generate waits for it to close (or the context to end) before returning,
// letting tests race a slow briefing against dismissal.
type MockBriefer struct {
	Msg      string
	Err      error
	Block    chan struct{}
	Started  chan struct{}
	mu       sync.Mutex
	GenCalls int
}

func (m *MockBriefer) Enabled() bool { return true }

func (m *MockBriefer) Generate(ctx context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	m.GenCalls++
	m.mu.Unlock()
	if m.Started != nil {
		close(m.Started)
		m.Started = nil
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.Msg, m.Err
}

func (m *MockBriefer) Fallback(_, timeStr string) string {
	return "fallback at " + timeStr
}

func (m *MockBriefer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GenCalls
}

// MockMetrics implements providers.MetricsProviderInterface and counts the
// domain-relevant calls.
type MockMetrics struct {
	mu             sync.Mutex
	Ticks          int
	Triggers       map[string]int
	RingingStates  []bool
	Snoozes        int
	Dismissals     int
	BriefingFails  int
	PersistObs     int
	RequestCalls   int
	CacheHitCalls  int
	CacheMissCalls int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCalls++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHitCalls++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMissCalls++
}
func (m *MockMetrics) IncTicks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
}
func (m *MockMetrics) IncTriggers(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Triggers == nil {
		m.Triggers = make(map[string]int)
	}
	m.Triggers[kind]++
}
func (m *MockMetrics) SetRinging(ringing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RingingStates = append(m.RingingStates, ringing)
}
func (m *MockMetrics) IncSnoozes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snoozes++
}
func (m *MockMetrics) IncDismissals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dismissals++
}
func (m *MockMetrics) ObserveBriefingDuration(_ time.Duration) {}
func (m *MockMetrics) IncBriefingFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BriefingFails++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistObs++
}
