// Package checker runs the probes of one environment and classifies the result.
package checker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/classify"
	"github.com/vietddude/nodewatch/internal/monitoring/consensus"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

// Pinger probes host reachability.
type Pinger interface {
	Ping(ctx context.Context, hosts []domain.Host) ([]domain.PingResult, error)
}

// StatusProber observes block height and version of an environment's hosts.
type StatusProber interface {
	Status(ctx context.Context, env *config.EnvironmentConfig, monitored []domain.Host) (domain.HostGroupSet, error)
}

// EnvironmentLoader loads the reference data of an environment.
type EnvironmentLoader interface {
	LoadEnvironment(id domain.EnvironmentID) (*config.EnvironmentConfig, error)
}

// Result is the outcome of checking one environment.
type Result struct {
	Diagnostics []domain.Diagnostic
	// Summary is nil when neither block height nor version is checked.
	Summary *consensus.Summary
}

// Checker checks the monitored hosts of one environment at a time.
type Checker struct {
	checkPing        bool
	checkBlockHeight bool
	checkVersion     bool

	envs       EnvironmentLoader
	pinger     Pinger
	status     StatusProber
	classifier *classify.Classifier
	log        *slog.Logger
}

// New creates a Checker from the run configuration.
func New(cfg *config.AppConfig, envs EnvironmentLoader, pinger Pinger, status StatusProber) *Checker {
	return &Checker{
		checkPing:        cfg.CheckPing,
		checkBlockHeight: cfg.CheckBlockHeight,
		checkVersion:     cfg.CheckVersion,
		envs:             envs,
		pinger:           pinger,
		status:           status,
		classifier:       classify.New(cfg.MaxBlocksBehind),
		log:              slog.Default().With("component", "checker"),
	}
}

// Check probes env and returns reachability diagnostics followed by
// block height and version diagnostics, host by host.
func (c *Checker) Check(ctx context.Context, env domain.Environment, monitored []domain.Host) (Result, error) {
	var result Result
	log := c.log.With("environment", env.ID)

	envCfg, err := c.envs.LoadEnvironment(env.ID)
	if err != nil {
		return result, fmt.Errorf("load environment: %w", err)
	}

	if c.checkPing {
		pings, err := c.pinger.Ping(ctx, monitored)
		if err != nil {
			return result, fmt.Errorf("ping: %w", err)
		}
		for _, p := range pings {
			if d, ok := classify.Reachability(p); ok {
				result.Diagnostics = append(result.Diagnostics, d)
			}
		}
	}

	if c.checkBlockHeight || c.checkVersion {
		groups, err := c.status.Status(ctx, envCfg, monitored)
		if err != nil {
			return result, fmt.Errorf("status: %w", err)
		}

		summary := consensus.Summarize(groups)
		result.Summary = &summary
		recordSummary(env, summary)

		log.Debug("Consensus computed",
			"max_block_height", summary.MaxBlockHeight,
			"reference_version", summary.ReferenceVersion,
			"block_height_consensus", summary.BlockHeightConsensus,
			"version_consensus", summary.VersionConsensus,
			"total", summary.Total,
		)
		if summary.SkippedHeight > 0 || summary.SkippedVersion > 0 {
			log.Debug("Hosts skipped from consensus",
				"height", summary.SkippedHeight, "version", summary.SkippedVersion)
		}

		for _, obs := range groups.NodesToMonitor {
			result.Diagnostics = append(result.Diagnostics, c.classify(log, obs, summary)...)
		}
	}

	for _, d := range result.Diagnostics {
		metrics.DiagnosticsTotal.WithLabelValues(string(env.ID), string(d.Metric)).Inc()
	}
	return result, nil
}

// classify returns the status diagnostics of one host. A metric that cannot
// be classified is logged and skipped; the other metric is still evaluated.
func (c *Checker) classify(log *slog.Logger, obs domain.Observation, s consensus.Summary) []domain.Diagnostic {
	var out []domain.Diagnostic

	if c.checkBlockHeight {
		d, ok, err := c.classifier.BlockHeight(obs, s)
		if err != nil {
			log.Warn("Unable to classify host", "host", obs.Name(), "error", err)
		} else if ok {
			out = append(out, d)
		}
	}

	if c.checkVersion {
		d, ok, err := c.classifier.Version(obs, s)
		if err != nil {
			log.Warn("Unable to classify host", "host", obs.Name(), "error", err)
		} else if ok {
			out = append(out, d)
		}
	}

	return out
}

func recordSummary(env domain.Environment, s consensus.Summary) {
	id := string(env.ID)
	metrics.MaxBlockHeight.WithLabelValues(id).Set(float64(s.MaxBlockHeight))
	if s.Total > 0 {
		metrics.ConsensusRatio.WithLabelValues(id, string(domain.MetricBlockHeight)).
			Set(float64(s.BlockHeightConsensus) / float64(s.Total))
		metrics.ConsensusRatio.WithLabelValues(id, string(domain.MetricVersion)).
			Set(float64(s.VersionConsensus) / float64(s.Total))
	}
}
