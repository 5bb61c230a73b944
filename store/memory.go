package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and single-node deployments.
type Memory struct {
	mu       sync.Mutex
	counters map[string]*memCounter
	kv       map[string]*memValue
	epochs   map[string]uint64
	now      func() time.Time
}

type memCounter struct {
	count     int64
	expiresAt time.Time
}

type memValue struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		counters: make(map[string]*memCounter),
		kv:       make(map[string]*memValue),
		epochs:   make(map[string]uint64),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Incr increments key, arming the expiry on the window's first write.
func (m *Memory) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c, ok := m.counters[key]
	if !ok || now.After(c.expiresAt) {
		c = &memCounter{expiresAt: now.Add(window)}
		m.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// Peek returns the current count without mutating it.
func (m *Memory) Peek(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[key]
	if !ok || m.now().After(c.expiresAt) {
		return 0, nil
	}
	return c.count, nil
}

// Get retrieves a value. Returns (nil, false, nil) on miss or expiry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.kv[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(v.expiresAt) {
		delete(m.kv, key)
		return nil, false, nil
	}
	return v.value, true, nil
}

// Set stores a value with the given TTL. TTL<=0 means no storage.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.kv[key] = &memValue{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes a value. Idempotent.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.kv, key)
	m.mu.Unlock()
	return nil
}

// Current returns the epoch for name.
func (m *Memory) Current(_ context.Context, name string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epochs[name], nil
}

// Advance increments the epoch for name.
func (m *Memory) Advance(_ context.Context, name string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epochs[name]++
	return m.epochs[name], nil
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)
