package respcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/curamesh/aigateway/config"
	"github.com/curamesh/aigateway/store"
)

// Entry is a cached provider response.
type Entry struct {
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
	TaskVersion uint64          `json:"task_version"`
}

// Age returns how old the entry is.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// PutFlags describe how a response was produced. Any flag set makes Put a
// no-op: overridden or degraded answers must never be cached.
type PutFlags struct {
	// Overridden marks a response the output validator rewrote or rejected.
	Overridden bool

	// Degraded marks a response produced by a fallback or stale path.
	Degraded bool
}

// Stats counts cache traffic since process start. Snapshot for dashboards.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	StaleHits int64 `json:"stale_hits"`
	Puts      int64 `json:"puts"`
	Skips     int64 `json:"skips"`
}

// Cache is the response cache.
//
// Contract:
// - Concurrency: safe for concurrent use; all shared state lives in the store.
// - Errors: Get and GetStale return (nil, false, nil) on miss.
type Cache struct {
	kv     store.KV
	epochs store.Epochs
	keyer  *Keyer
	cfg    *config.Config
	now    func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	staleHits atomic.Int64
	puts      atomic.Int64
	skips     atomic.Int64
}

// New creates a response cache over the shared store.
func New(kv store.KV, epochs store.Epochs, cfg *config.Config) *Cache {
	return &Cache{
		kv:     kv,
		epochs: epochs,
		keyer:  NewKeyer(cfg.Cache.VolatileFields, cfg.Cache.PatientField),
		cfg:    cfg,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Keyer exposes the canonicalizing keyer for in-flight deduplication.
func (c *Cache) Keyer() *Keyer {
	return c.keyer
}

// Get returns the fresh entry for a task invocation, or a miss when the task
// is non-cacheable, the entry is absent, or its age exceeds the task TTL.
// Entries past their TTL are left in place for GetStale.
func (c *Cache) Get(ctx context.Context, task string, taskCtx map[string]any) (*Entry, bool, error) {
	entry, ok, err := c.lookup(ctx, task, taskCtx)
	if err != nil || !ok {
		if err == nil {
			c.misses.Add(1)
		}
		return nil, false, err
	}
	if entry.Age(c.now()) > c.cfg.PolicyFor(task).TTL() {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return entry, true, nil
}

// GetStale is Get without the TTL bound. Reserved for the degraded-mode
// fallback path; its results must not be re-cached.
func (c *Cache) GetStale(ctx context.Context, task string, taskCtx map[string]any) (*Entry, bool, error) {
	entry, ok, err := c.lookup(ctx, task, taskCtx)
	if err != nil || !ok {
		return nil, false, err
	}
	c.staleHits.Add(1)
	return entry, true, nil
}

// Put stores a successful response. It is a no-op when the task is
// non-cacheable or excluded, or when flags mark the response overridden or
// degraded.
func (c *Cache) Put(ctx context.Context, task string, taskCtx map[string]any, data json.RawMessage, flags PutFlags) error {
	policy := c.cfg.PolicyFor(task)
	if !policy.Cacheable || c.cfg.CacheExcluded(task) || flags.Overridden || flags.Degraded {
		c.skips.Add(1)
		return nil
	}

	key, taskEpoch, err := c.entryKey(ctx, task, taskCtx)
	if err != nil {
		return err
	}

	entry := Entry{Data: data, CreatedAt: c.now().UTC(), TaskVersion: taskEpoch}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("respcache: encoding entry: %w", err)
	}

	// Retain past the TTL so the stale-fallback path can still read it.
	storeTTL := policy.TTL() + c.cfg.Cache.StaleRetention()
	if err := c.kv.Set(ctx, key, raw, storeTTL); err != nil {
		return err
	}
	c.puts.Add(1)
	return nil
}

// InvalidatePatient advances the patient's epoch, making every cache entry
// for that patient unreachable. O(1); no entries are scanned or deleted.
func (c *Cache) InvalidatePatient(ctx context.Context, patientID string) error {
	if patientID == "" {
		return ErrEmptyPatientID
	}
	_, err := c.epochs.Advance(ctx, "patient:"+patientID)
	return err
}

// InvalidateTask advances the task's version epoch, clearing the task's
// entries for all patients at once. Administrative use (schema changes).
func (c *Cache) InvalidateTask(ctx context.Context, task string) error {
	if task == "" {
		return ErrEmptyTask
	}
	_, err := c.epochs.Advance(ctx, "task:"+task)
	return err
}

// Stats returns a snapshot of cache traffic counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		StaleHits: c.staleHits.Load(),
		Puts:      c.puts.Load(),
		Skips:     c.skips.Load(),
	}
}

func (c *Cache) lookup(ctx context.Context, task string, taskCtx map[string]any) (*Entry, bool, error) {
	if !c.cfg.PolicyFor(task).Cacheable || c.cfg.CacheExcluded(task) {
		return nil, false, nil
	}

	key, _, err := c.entryKey(ctx, task, taskCtx)
	if err != nil {
		return nil, false, err
	}

	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("respcache: decoding entry: %w", err)
	}
	return &entry, true, nil
}

// entryKey resolves both epochs and derives the entry key.
func (c *Cache) entryKey(ctx context.Context, task string, taskCtx map[string]any) (string, uint64, error) {
	taskEpoch, err := c.epochs.Current(ctx, "task:"+task)
	if err != nil {
		return "", 0, err
	}

	var patientEpoch uint64
	if patientID, ok := c.keyer.PatientID(taskCtx); ok {
		patientEpoch, err = c.epochs.Current(ctx, "patient:"+patientID)
		if err != nil {
			return "", 0, err
		}
	}

	key, err := c.keyer.Key(task, taskEpoch, patientEpoch, taskCtx)
	if err != nil {
		return "", 0, err
	}
	return key, taskEpoch, nil
}
