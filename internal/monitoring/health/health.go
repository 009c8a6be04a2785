// Package health provides system health monitoring and status reporting.
package health

import (
	"sort"
	"time"

	"github.com/vietddude/nodewatch/internal/infra/nodeapi"
)

// SystemStatus represents the overall health state of the system or an environment.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
	StatusUnknown  SystemStatus = "unknown"
)

// Serving reports whether the last run can be trusted. No run yet and a
// stale or failed run are not.
func (s SystemStatus) Serving() bool {
	return s == StatusHealthy || s == StatusDegraded
}

// EnvironmentHealth contains the last check result of one environment.
type EnvironmentHealth struct {
	Environment          string       `json:"environment"`
	Status               SystemStatus `json:"status"`
	Hosts                int          `json:"hosts"`
	Diagnostics          int          `json:"diagnostics"`
	MaxBlockHeight       uint64       `json:"max_block_height"`
	ReferenceVersion     string       `json:"reference_version,omitempty"`
	BlockHeightConsensus int          `json:"block_height_consensus"`
	VersionConsensus     int          `json:"version_consensus"`
	Error                string       `json:"error,omitempty"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus                 `json:"system_status"`
	RunID        string                       `json:"run_id,omitempty"`
	CheckedAt    time.Time                    `json:"checked_at"`
	Delivered    bool                         `json:"delivered"`
	Environments map[string]EnvironmentHealth `json:"environments"`
	NodeAPI      *nodeapi.HealthStatus        `json:"node_api,omitempty"`
}

// Alerting returns the ids of environments that produced diagnostics or
// failed in the last run, sorted.
func (r HealthReport) Alerting() []string {
	var ids []string
	for id, eh := range r.Environments {
		if eh.Status != StatusHealthy {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
