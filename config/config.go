package config

import (
	"fmt"
	"time"

	"github.com/curamesh/aigateway/actor"
)

// FailurePolicy decides what happens when the shared counter store is
// unreachable during an admission check.
type FailurePolicy string

const (
	// FailClosed rejects requests when the counter store is unavailable.
	FailClosed FailurePolicy = "fail_closed"
	// FailOpen admits requests when the counter store is unavailable.
	FailOpen FailurePolicy = "fail_open"
)

// Config is the root configuration for the gateway.
type Config struct {
	Global    GlobalConfig          `yaml:"global"`
	Tasks     map[string]TaskPolicy `yaml:"tasks"`
	Roles     map[string]RolePolicy `yaml:"roles"`
	Admission AdmissionConfig       `yaml:"admission"`
	Cache     CacheConfig           `yaml:"cache"`
	Provider  ProviderConfig        `yaml:"provider"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
	Redis     RedisConfig           `yaml:"redis"`
	Logging   LoggingConfig         `yaml:"logging"`
}

// GlobalConfig holds the global capacity ceiling.
type GlobalConfig struct {
	// RequestsPerMinute caps admitted requests across all actors.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// TaskPolicy configures one named capability.
type TaskPolicy struct {
	// RequestsPerMinute caps admitted requests per (actor, task).
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// TTLSeconds is the response cache TTL for this task.
	TTLSeconds int `yaml:"ttl_seconds"`

	// Cacheable marks whether successful responses may be cached.
	Cacheable bool `yaml:"cacheable"`

	// MaxRetries is the retry budget for transient provider failures.
	MaxRetries int `yaml:"max_retries"`
}

// TTL returns the cache TTL as a duration.
func (p TaskPolicy) TTL() time.Duration {
	return time.Duration(p.TTLSeconds) * time.Second
}

// RolePolicy configures quota for one caller role.
type RolePolicy struct {
	// DailyQuota caps admitted requests per actor per UTC day.
	DailyQuota int `yaml:"daily_quota"`
}

// AdmissionConfig configures the admission controller.
type AdmissionConfig struct {
	// FailurePolicy decides fail-open vs fail-closed on store outage.
	// Default: fail_closed.
	FailurePolicy FailurePolicy `yaml:"failure_policy"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// StaleRetentionSeconds is how long past its TTL an entry is retained
	// for degraded-mode fallback.
	StaleRetentionSeconds int `yaml:"stale_retention_seconds"`

	// VolatileFields are context keys stripped before cache-key hashing.
	VolatileFields []string `yaml:"volatile_fields"`

	// PatientField is the context key carrying the patient ID.
	PatientField string `yaml:"patient_field"`

	// ExcludedTasks are tasks whose responses are never stored.
	ExcludedTasks []string `yaml:"excluded_tasks"`
}

// StaleRetention returns the stale retention as a duration.
func (c CacheConfig) StaleRetention() time.Duration {
	return time.Duration(c.StaleRetentionSeconds) * time.Second
}

// BreakerConfig configures the provider circuit breaker.
type BreakerConfig struct {
	MaxFailures  int `yaml:"max_failures"`
	ResetSeconds int `yaml:"reset_seconds"`
}

// ProviderConfig configures the outbound provider call.
type ProviderConfig struct {
	// TimeoutSeconds is the hard per-call timeout budget.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxConcurrent bounds in-flight provider calls. 0 disables the bound.
	MaxConcurrent int `yaml:"max_concurrent"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// Timeout returns the provider timeout as a duration.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TelemetryConfig configures the telemetry recorder.
type TelemetryConfig struct {
	// LatencyBudgetMS is the latency budget feeding the health score.
	LatencyBudgetMS int `yaml:"latency_budget_ms"`

	// Retention window counts per granularity.
	RetainMinutes int `yaml:"retain_minutes"`
	RetainHours   int `yaml:"retain_hours"`
	RetainDays    int `yaml:"retain_days"`

	// AlertLatencyMS flags any single request slower than this.
	AlertLatencyMS int `yaml:"alert_latency_ms"`

	// AlertErrorRate flags a minute window whose error rate crosses this.
	AlertErrorRate float64 `yaml:"alert_error_rate"`
}

// RedisConfig configures the shared store connection.
// An empty URL selects the in-memory store (single-node deployments, tests).
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

// Default returns the baseline configuration. Loaded files override it.
func Default() *Config {
	return &Config{
		Global: GlobalConfig{RequestsPerMinute: 120},
		Tasks:  map[string]TaskPolicy{},
		Roles: map[string]RolePolicy{
			string(actor.RoleClinician): {DailyQuota: 200},
			string(actor.RoleResident):  {DailyQuota: 150},
			string(actor.RoleNurse):     {DailyQuota: 100},
			string(actor.RoleAdmin):     {DailyQuota: 500},
		},
		Admission: AdmissionConfig{FailurePolicy: FailClosed},
		Cache: CacheConfig{
			StaleRetentionSeconds: 24 * 60 * 60,
			VolatileFields:        []string{"timestamp", "requestId", "traceId", "nonce"},
			PatientField:          "patientId",
		},
		Provider: ProviderConfig{
			TimeoutSeconds: 30,
			MaxConcurrent:  32,
			Breaker:        BreakerConfig{MaxFailures: 5, ResetSeconds: 30},
		},
		Telemetry: TelemetryConfig{
			LatencyBudgetMS: 1000,
			RetainMinutes:   60,
			RetainHours:     24,
			RetainDays:      7,
			AlertLatencyMS:  5000,
			AlertErrorRate:  0.25,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// defaultTaskPolicy applies to tasks absent from the policy table.
var defaultTaskPolicy = TaskPolicy{
	RequestsPerMinute: 10,
	TTLSeconds:        300,
	Cacheable:         false,
	MaxRetries:        2,
}

// PolicyFor returns the policy for a task, falling back to conservative
// defaults for unknown tasks.
func (c *Config) PolicyFor(task string) TaskPolicy {
	if p, ok := c.Tasks[task]; ok {
		return p
	}
	return defaultTaskPolicy
}

// QuotaFor returns the daily quota for a role. Unknown roles get the
// smallest configured quota.
func (c *Config) QuotaFor(role actor.Role) int {
	if p, ok := c.Roles[string(role)]; ok {
		return p.DailyQuota
	}
	min := 0
	for _, p := range c.Roles {
		if min == 0 || p.DailyQuota < min {
			min = p.DailyQuota
		}
	}
	return min
}

// CacheExcluded reports whether a task is on the never-store list.
func (c *Config) CacheExcluded(task string) bool {
	for _, t := range c.Cache.ExcludedTasks {
		if t == task {
			return true
		}
	}
	return false
}

// Validate checks the configuration for operator mistakes.
func (c *Config) Validate() error {
	if c.Global.RequestsPerMinute <= 0 {
		return fmt.Errorf("config: global requests_per_minute must be positive, got %d", c.Global.RequestsPerMinute)
	}
	switch c.Admission.FailurePolicy {
	case FailClosed, FailOpen:
	default:
		return fmt.Errorf("config: unknown admission failure_policy %q", c.Admission.FailurePolicy)
	}
	for name, p := range c.Tasks {
		if p.RequestsPerMinute <= 0 {
			return fmt.Errorf("config: task %q requests_per_minute must be positive", name)
		}
		if p.Cacheable && p.TTLSeconds <= 0 {
			return fmt.Errorf("config: cacheable task %q needs a positive ttl_seconds", name)
		}
		if p.MaxRetries < 0 {
			return fmt.Errorf("config: task %q max_retries must not be negative", name)
		}
	}
	for name, p := range c.Roles {
		if p.DailyQuota <= 0 {
			return fmt.Errorf("config: role %q daily_quota must be positive", name)
		}
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: provider timeout_seconds must be positive")
	}
	if c.Telemetry.LatencyBudgetMS <= 0 {
		return fmt.Errorf("config: telemetry latency_budget_ms must be positive")
	}
	if c.Telemetry.AlertErrorRate < 0 || c.Telemetry.AlertErrorRate > 1 {
		return fmt.Errorf("config: alert_error_rate must be between 0.0 and 1.0, got %f", c.Telemetry.AlertErrorRate)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}
