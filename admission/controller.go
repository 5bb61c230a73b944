package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/curamesh/aigateway/actor"
	"github.com/curamesh/aigateway/config"
	"github.com/curamesh/aigateway/store"
)

const (
	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour

	// storeRetryAfter is suggested to callers rejected by a fail-closed
	// store outage.
	storeRetryAfter = 10 * time.Second
)

// Remaining reports the budget left under each ceiling after a check.
// A rejected ceiling reads zero.
type Remaining struct {
	Task   int64
	Global int64
	Quota  int64
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool

	// RetryAfter is how long a rejected caller should wait. Zero when allowed.
	RetryAfter time.Duration

	Remaining Remaining
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1 for
// rejections.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	secs := int((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Controller enforces the three admission ceilings.
type Controller struct {
	counters store.Counter
	cfg      *config.Config
	policy   config.FailurePolicy
	now      func() time.Time
}

// New creates a controller. The failure policy comes from cfg.Admission.
func New(counters store.Counter, cfg *config.Config) *Controller {
	policy := cfg.Admission.FailurePolicy
	if policy == "" {
		policy = config.FailClosed
	}
	return &Controller{
		counters: counters,
		cfg:      cfg,
		policy:   policy,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// Check spends one admission slot for the given actor and task, evaluating
// ceilings in the fixed order global → task → quota.
//
// On a store failure the returned Decision reflects the configured
// fail-open/fail-closed policy and the error is returned alongside it for
// logging; callers should honor the Decision either way.
func (c *Controller) Check(ctx context.Context, id actor.Identity, task string) (Decision, error) {
	now := c.now()
	minIdx := now.Unix() / int64(minuteWindow/time.Second)
	dayIdx := now.Unix() / int64(dayWindow/time.Second)

	globalLimit := int64(c.cfg.Global.RequestsPerMinute)
	taskLimit := int64(c.cfg.PolicyFor(task).RequestsPerMinute)
	quotaLimit := int64(c.cfg.QuotaFor(id.Role))

	globalKey := fmt.Sprintf("adm:g:%d", minIdx)
	taskKey := fmt.Sprintf("adm:t:%s:%s:%d", id.ID, task, minIdx)
	quotaKey := fmt.Sprintf("adm:q:%s:%d", id.ID, dayIdx)

	// Ceiling 1: global per-minute capacity.
	globalCount, err := c.counters.Incr(ctx, globalKey, minuteWindow)
	if err != nil {
		return c.storeFailure(), err
	}
	if globalCount > globalLimit {
		return Decision{
			RetryAfter: untilNextWindow(now, minuteWindow),
			Remaining: Remaining{
				Global: 0,
				Task:   c.peekRemaining(ctx, taskKey, taskLimit),
				Quota:  c.peekRemaining(ctx, quotaKey, quotaLimit),
			},
		}, nil
	}

	// Ceiling 2: per-(actor, task) per-minute ceiling.
	taskCount, err := c.counters.Incr(ctx, taskKey, minuteWindow)
	if err != nil {
		return c.storeFailure(), err
	}
	if taskCount > taskLimit {
		return Decision{
			RetryAfter: untilNextWindow(now, minuteWindow),
			Remaining: Remaining{
				Global: clamp(globalLimit - globalCount),
				Task:   0,
				Quota:  c.peekRemaining(ctx, quotaKey, quotaLimit),
			},
		}, nil
	}

	// Ceiling 3: per-actor daily quota, sized by role.
	quotaCount, err := c.counters.Incr(ctx, quotaKey, dayWindow)
	if err != nil {
		return c.storeFailure(), err
	}
	if quotaCount > quotaLimit {
		return Decision{
			RetryAfter: untilNextWindow(now, dayWindow),
			Remaining: Remaining{
				Global: clamp(globalLimit - globalCount),
				Task:   clamp(taskLimit - taskCount),
				Quota:  0,
			},
		}, nil
	}

	return Decision{
		Allowed: true,
		Remaining: Remaining{
			Global: clamp(globalLimit - globalCount),
			Task:   clamp(taskLimit - taskCount),
			Quota:  clamp(quotaLimit - quotaCount),
		},
	}, nil
}

// storeFailure maps a counter-store outage to the configured policy.
func (c *Controller) storeFailure() Decision {
	if c.policy == config.FailOpen {
		return Decision{Allowed: true, Remaining: Remaining{Task: -1, Global: -1, Quota: -1}}
	}
	return Decision{RetryAfter: storeRetryAfter}
}

// peekRemaining reads a ceiling's remaining budget without spending it.
// Best effort: a read failure reports the full limit.
func (c *Controller) peekRemaining(ctx context.Context, key string, limit int64) int64 {
	count, err := c.counters.Peek(ctx, key)
	if err != nil {
		return limit
	}
	return clamp(limit - count)
}

func untilNextWindow(now time.Time, window time.Duration) time.Duration {
	elapsed := time.Duration(now.UnixNano()) % window
	return window - elapsed
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
