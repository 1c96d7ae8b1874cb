package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// single-process deployments that do not need the date gate to survive a
// restart.
type MemoryStorage struct {
	mu         sync.RWMutex
	states     map[string]BotState
	deliveries map[string][]Delivery
	settings   map[string]string
	jobs       map[string]ScheduledJob
}

func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		states:     make(map[string]BotState),
		deliveries: make(map[string][]Delivery),
		settings:   make(map[string]string),
		jobs:       make(map[string]ScheduledJob),
	}
}

func (m *MemoryStorage) GetBotState(ctx context.Context, source string) (*BotState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[source]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *MemoryStorage) SaveBotState(ctx context.Context, state BotState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	m.states[state.Source] = state
	return nil
}

func (m *MemoryStorage) GetDelivery(ctx context.Context, reportDate string) (*Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds := m.deliveries[reportDate]
	if len(ds) == 0 {
		return nil, nil
	}
	d := ds[len(ds)-1]
	return &d, nil
}

func (m *MemoryStorage) SaveDelivery(ctx context.Context, d Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.SentAt.IsZero() {
		d.SentAt = time.Now()
	}
	m.deliveries[d.ReportDate] = append(m.deliveries[d.ReportDate], d)
	return nil
}

func (m *MemoryStorage) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[key], nil
}

func (m *MemoryStorage) SaveSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *MemoryStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[name]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (m *MemoryStorage) UpdateScheduledJob(ctx context.Context, name string, startedAt time.Time, dur time.Duration, success bool, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[name] = ScheduledJob{
		Name:           name,
		LastRunAt:      startedAt,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    success,
		LastError:      errMsg,
	}
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
