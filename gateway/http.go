package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/curamesh/aigateway/health"
)

// Routes registers the administrative and health endpoints on mux.
// pinger, when non-nil, adds a store connectivity check to readiness;
// pass the Redis store in production, nil for the in-memory store.
func (g *Gateway) Routes(mux *http.ServeMux, pinger health.Pinger) {
	agg := health.NewAggregator()
	if pinger != nil {
		agg.Register("store", health.NewStoreChecker("store", pinger))
	}
	agg.Register("gateway", health.NewScoreChecker("gateway", g.HealthScore))
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	health.RegisterHandlers(mux, agg)

	mux.HandleFunc("/admin/invalidate/patient", g.handleInvalidatePatient)
	mux.HandleFunc("/admin/invalidate/task", g.handleInvalidateTask)
	mux.HandleFunc("/admin/dashboard", g.handleDashboard)
}

func (g *Gateway) handleInvalidatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID string `json:"patientId"`
	}
	if !decodeAdmin(w, r, &req) {
		return
	}
	if req.PatientID == "" {
		http.Error(w, "patientId is required", http.StatusBadRequest)
		return
	}
	if err := g.InvalidatePatient(r.Context(), req.PatientID); err != nil {
		http.Error(w, "invalidation failed", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (g *Gateway) handleInvalidateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Task string `json:"task"`
	}
	if !decodeAdmin(w, r, &req) {
		return
	}
	if req.Task == "" {
		http.Error(w, "task is required", http.StatusBadRequest)
		return
	}
	if err := g.InvalidateTask(r.Context(), req.Task); err != nil {
		http.Error(w, "invalidation failed", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (g *Gateway) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, g.Dashboard())
}

func decodeAdmin(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
