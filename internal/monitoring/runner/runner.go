// Package runner drives one check pass over every environment and hands the
// aggregated message to the reporter.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/infra/notify"
	"github.com/vietddude/nodewatch/internal/monitoring/checker"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

// EnvironmentChecker checks the monitored hosts of a single environment.
type EnvironmentChecker interface {
	Check(ctx context.Context, env domain.Environment, monitored []domain.Host) (checker.Result, error)
}

// HostSource returns the monitored hosts of an environment.
type HostSource interface {
	MonitoredHosts(id domain.EnvironmentID) []domain.Host
}

// EnvironmentReport is the outcome of one environment within a run.
type EnvironmentReport struct {
	Environment domain.Environment
	Skipped     bool
	Err         error
	Result      checker.Result
}

// Report is the outcome of one run.
type Report struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Environments []EnvironmentReport
	Message      string
	Delivered    bool
}

// Runner checks every environment in a fixed order.
type Runner struct {
	hosts    HostSource
	checker  EnvironmentChecker
	reporter notify.Reporter
	log      *slog.Logger
}

// New creates a Runner.
func New(hosts HostSource, checker EnvironmentChecker, reporter notify.Reporter) *Runner {
	return &Runner{
		hosts:    hosts,
		checker:  checker,
		reporter: reporter,
		log:      slog.Default().With("component", "runner"),
	}
}

// Run checks all environments and reports the assembled message when it is
// not empty. Failures of one environment never stop the others; only a
// delivery failure is returned.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := r.log.With("run_id", report.RunID)
	log.Info("Starting check run")

	var blocks []Block
	for _, env := range domain.Environments() {
		er := r.checkEnvironment(ctx, log, env)
		report.Environments = append(report.Environments, er)

		if len(er.Result.Diagnostics) == 0 {
			continue
		}
		lines := make([]string, len(er.Result.Diagnostics))
		for i, d := range er.Result.Diagnostics {
			lines[i] = d.Line
		}
		blocks = append(blocks, Block{Name: env.Name, Lines: lines})
	}

	report.Message = Assemble(blocks)
	report.FinishedAt = time.Now()

	if report.Message == "" {
		log.Info("All nodes healthy", "duration", report.FinishedAt.Sub(report.StartedAt))
		return report, nil
	}

	log.Info("Sending report", "reporter", r.reporter.Name(), "environments", len(blocks))
	if err := r.reporter.Report(ctx, report.Message); err != nil {
		metrics.ReportsTotal.WithLabelValues("failed").Inc()
		return report, fmt.Errorf("send report via %s: %w", r.reporter.Name(), err)
	}
	metrics.ReportsTotal.WithLabelValues("delivered").Inc()
	report.Delivered = true
	return report, nil
}

// checkEnvironment isolates one environment: errors and panics are logged and
// turn into an empty result.
func (r *Runner) checkEnvironment(ctx context.Context, log *slog.Logger, env domain.Environment) (er EnvironmentReport) {
	er.Environment = env

	monitored := r.hosts.MonitoredHosts(env.ID)
	if len(monitored) == 0 {
		er.Skipped = true
		return er
	}

	log = log.With("environment", env.ID)
	metrics.ChecksTotal.WithLabelValues(string(env.ID)).Inc()

	defer func() {
		if rec := recover(); rec != nil {
			er.Err = fmt.Errorf("panic: %v", rec)
			er.Result = checker.Result{}
		}
		if er.Err != nil {
			metrics.CheckFailuresTotal.WithLabelValues(string(env.ID)).Inc()
			log.Warn("Unable to check nodes", "error", er.Err)
		}
	}()

	result, err := r.checker.Check(ctx, env, monitored)
	if err != nil {
		er.Err = err
		return er
	}

	er.Result = result
	log.Debug("Environment checked", "hosts", len(monitored), "diagnostics", len(result.Diagnostics))
	return er
}

// Block is the diagnostics of one environment.
type Block struct {
	Name  string
	Lines []string
}

// Assemble renders blocks as "***name***" headers followed by one line per
// diagnostic. Blocks without lines are left out.
func Assemble(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		if len(b.Lines) == 0 {
			continue
		}
		sb.WriteString("***" + b.Name + "***\n")
		for _, line := range b.Lines {
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}
