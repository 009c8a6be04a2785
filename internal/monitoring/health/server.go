package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the last run over HTTP while nodewatch runs in serve mode.
type Server struct {
	monitor *Monitor
	server  *http.Server
}

// runSummary is the short answer of /health.
type runSummary struct {
	Status    SystemStatus `json:"status"`
	RunID     string       `json:"run_id,omitempty"`
	CheckedAt *time.Time   `json:"checked_at,omitempty"`
	Delivered bool         `json:"delivered"`
	Alerting  []string     `json:"alerting,omitempty"`
}

func NewServer(monitor *Monitor, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor: monitor,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleDetailed)
	mux.HandleFunc("GET /health/environments/{id}", s.handleEnvironment)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth()

	summary := runSummary{
		Status:    report.SystemStatus,
		RunID:     report.RunID,
		Delivered: report.Delivered,
		Alerting:  report.Alerting(),
	}
	if !report.CheckedAt.IsZero() {
		summary.CheckedAt = &report.CheckedAt
	}

	code := http.StatusOK
	if !report.SystemStatus.Serving() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, summary)
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.CheckHealth())
}

// handleEnvironment answers for one environment id. Environments that were
// skipped or are unknown are 404.
func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	eh, ok := s.monitor.CheckHealth().Environments[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no result for environment " + id})
		return
	}
	writeJSON(w, http.StatusOK, eh)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
