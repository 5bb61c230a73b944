package gateway

import (
	"context"

	"github.com/curamesh/aigateway/respcache"
	"github.com/curamesh/aigateway/telemetry"
)

// Dashboard is the operator snapshot: cache traffic, per-period
// telemetry, recent alerts, and the state of the provider guards.
type Dashboard struct {
	Cache  respcache.Stats   `json:"cache"`
	Minute telemetry.Report  `json:"minute"`
	Hour   telemetry.Report  `json:"hour"`
	Day    telemetry.Report  `json:"day"`
	Alerts []telemetry.Alert `json:"alerts"`

	// Breaker is the circuit state, "disabled" when no breaker is
	// configured.
	Breaker string `json:"breaker"`

	// InFlight is the number of provider calls currently holding a
	// bulkhead slot.
	InFlight int `json:"inFlight"`
}

// Dashboard assembles the current snapshot.
func (g *Gateway) Dashboard() Dashboard {
	d := Dashboard{
		Cache:   g.cache.Stats(),
		Minute:  g.recorder.Metrics(telemetry.PeriodMinute),
		Hour:    g.recorder.Metrics(telemetry.PeriodHour),
		Day:     g.recorder.Metrics(telemetry.PeriodDay),
		Alerts:  g.recorder.Alerts(),
		Breaker: "disabled",
	}
	if g.breaker != nil {
		d.Breaker = g.breaker.State().String()
	}
	if g.bulkhead != nil {
		d.InFlight = g.bulkhead.InFlight()
	}
	return d
}

// InvalidatePatient drops every cached response tied to a patient by
// bumping the patient's epoch. Old entries age out of the store.
func (g *Gateway) InvalidatePatient(ctx context.Context, patientID string) error {
	return g.cache.InvalidatePatient(ctx, patientID)
}

// InvalidateTask drops every cached response for a task, typically
// after a prompt or model change.
func (g *Gateway) InvalidateTask(ctx context.Context, task string) error {
	return g.cache.InvalidateTask(ctx, task)
}

// HealthScore reports the rolling-minute composite score and its status
// band. Feeds the readiness checker.
func (g *Gateway) HealthScore() (float64, string) {
	rep := g.recorder.Metrics(telemetry.PeriodMinute)
	return rep.Health.Score, string(rep.Health.Status)
}
