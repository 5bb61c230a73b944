package telemetry

// Status labels a health score band.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Report is the aggregate view of one period.
type Report struct {
	Period   Period `json:"period"`
	Requests struct {
		Total   int64 `json:"total"`
		Success int64 `json:"success"`
		Failure int64 `json:"failure"`
	} `json:"requests"`
	Latency struct {
		AvgMS float64 `json:"avgMs"`
		MaxMS int64   `json:"maxMs"`
	} `json:"latency"`
	CacheHitRate float64 `json:"cacheHitRate"`
	Health       struct {
		Score  float64 `json:"score"`
		Status Status  `json:"status"`
	} `json:"health"`
}

// Score derives the composite health score, clamped to [0,100].
// Error rate weighs 50 points, latency relative to the budget 30, and
// rate-limit pressure 20.
func Score(errorRate, avgLatencyMS, budgetMS, rateLimitUtilization float64) float64 {
	if budgetMS <= 0 {
		budgetMS = 1
	}
	score := 100 -
		50*errorRate -
		30*min1(avgLatencyMS/budgetMS) -
		20*min1(rateLimitUtilization)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// StatusFor maps a score to its status band.
func StatusFor(score float64) Status {
	switch {
	case score >= 90:
		return StatusHealthy
	case score >= 70:
		return StatusDegraded
	case score >= 50:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
