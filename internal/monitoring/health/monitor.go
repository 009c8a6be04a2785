package health

import (
	"sync"
	"time"

	"github.com/vietddude/nodewatch/internal/infra/nodeapi"
	"github.com/vietddude/nodewatch/internal/monitoring/runner"
)

// APIHealth exposes the node api client's health.
type APIHealth interface {
	GetHealth() nodeapi.HealthStatus
}

// Monitor keeps the outcome of the most recent run in memory.
type Monitor struct {
	staleAfter time.Duration
	api        APIHealth

	mu   sync.RWMutex
	last *runner.Report
}

// NewMonitor creates a Monitor. A report older than staleAfter is critical.
// api may be nil.
func NewMonitor(staleAfter time.Duration, api APIHealth) *Monitor {
	return &Monitor{staleAfter: staleAfter, api: api}
}

// Record stores the report of a finished run.
func (m *Monitor) Record(report *runner.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = report
}

// CheckHealth builds a health report from the most recent run.
func (m *Monitor) CheckHealth() HealthReport {
	m.mu.RLock()
	last := m.last
	m.mu.RUnlock()

	report := HealthReport{
		SystemStatus: StatusUnknown,
		Environments: make(map[string]EnvironmentHealth),
	}
	if m.api != nil {
		h := m.api.GetHealth()
		report.NodeAPI = &h
	}
	if last == nil {
		return report
	}

	report.RunID = last.RunID
	report.CheckedAt = last.FinishedAt
	report.Delivered = last.Delivered
	report.SystemStatus = StatusHealthy

	for _, er := range last.Environments {
		if er.Skipped {
			continue
		}

		eh := EnvironmentHealth{
			Environment: er.Environment.Name,
			Status:      StatusHealthy,
			Diagnostics: len(er.Result.Diagnostics),
		}
		if s := er.Result.Summary; s != nil {
			eh.Hosts = s.Total
			eh.MaxBlockHeight = s.MaxBlockHeight
			eh.ReferenceVersion = s.ReferenceVersion
			eh.BlockHeightConsensus = s.BlockHeightConsensus
			eh.VersionConsensus = s.VersionConsensus
		}

		switch {
		case er.Err != nil:
			eh.Status = StatusCritical
			eh.Error = er.Err.Error()
		case eh.Diagnostics > 0:
			eh.Status = StatusDegraded
		}

		report.SystemStatus = worst(report.SystemStatus, eh.Status)
		report.Environments[string(er.Environment.ID)] = eh
	}

	if m.staleAfter > 0 && time.Since(last.FinishedAt) > m.staleAfter {
		report.SystemStatus = StatusCritical
	}

	return report
}

func worst(a, b SystemStatus) SystemStatus {
	rank := map[SystemStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnknown: 2, StatusCritical: 3}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
