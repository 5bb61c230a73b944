package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without reaching the provider.
	StateOpen
	// StateHalfOpen means a limited number of probe calls are allowed.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitConfig configures the circuit breaker.
type CircuitConfig struct {
	// MaxFailures is the consecutive-failure threshold that opens the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30s
	ResetTimeout time.Duration

	// HalfOpenMaxProbes is the number of probe calls allowed while half-open.
	// Default: 1
	HalfOpenMaxProbes int

	// IsFailure decides whether an error counts toward opening the circuit.
	// Default: all non-nil errors.
	IsFailure func(err error) bool

	// OnStateChange is called when the circuit transitions.
	OnStateChange func(from, to State)
}

// CircuitBreaker stops calls to a failing provider until it recovers.
type CircuitBreaker struct {
	config CircuitConfig

	mu         sync.Mutex
	state      State
	failures   int
	lastFail   time.Time
	probeCount int
}

// NewCircuitBreaker creates a circuit breaker with defaults applied.
func NewCircuitBreaker(config CircuitConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// Execute runs op through the breaker, returning ErrCircuitOpen without
// invoking it when the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := op(ctx)
	cb.after(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// Reset forces the circuit closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionLocked(StateClosed)
	cb.failures = 0
	cb.probeCount = 0
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.stateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probeCount >= cb.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		cb.probeCount++
	}
	return nil
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.config.IsFailure(err) {
		if cb.stateLocked() == StateHalfOpen {
			cb.probeCount = 0
			cb.transitionLocked(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFail = time.Now()
	if cb.stateLocked() == StateHalfOpen || cb.failures >= cb.config.MaxFailures {
		cb.probeCount = 0
		cb.transitionLocked(StateOpen)
	}
}

// stateLocked resolves open→half-open once the reset timeout has elapsed.
func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFail) >= cb.config.ResetTimeout {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
