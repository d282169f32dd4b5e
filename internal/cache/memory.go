package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// MemoryStore caches the table in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	table     *model.Table
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl disables caching.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(_ context.Context) (*model.Table, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.table == nil || !m.now().Before(m.expiresAt) {
		return nil, false, nil
	}
	return m.table, true, nil
}

func (m *MemoryStore) Put(_ context.Context, t *model.Table) error {
	if m.ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = t
	m.expiresAt = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = nil
	m.expiresAt = time.Time{}
	return nil
}
