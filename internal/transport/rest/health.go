package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const (
	serviceName   = "mivyca-backend"
	dbPingTimeout = 2 * time.Second
)

type healthState string

const (
	stateUp   healthState = "up"
	stateDown healthState = "down"
)

type componentHealth struct {
	State     healthState `json:"state"`
	Error     string      `json:"error,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
}

type healthReport struct {
	Status     healthState                `json:"status"`
	Service    string                     `json:"service"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]componentHealth `json:"components"`
}

// HealthHandler serves the liveness and readiness endpoints. Readiness
// pings the shared connection pool; liveness only proves the process
// answers HTTP.
type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbPingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	dbHealth := componentHealth{
		State:     stateUp,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		dbHealth.State = stateDown
		dbHealth.Error = err.Error()
	}

	report := healthReport{
		Status:     dbHealth.State,
		Service:    serviceName,
		CheckedAt:  time.Now(),
		Components: map[string]componentHealth{"database": dbHealth},
	}

	statusCode := http.StatusOK
	if report.Status == stateDown {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(report)
}
