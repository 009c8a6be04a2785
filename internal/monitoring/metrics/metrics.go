package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal tracks environment checks per environment
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_checks_total",
			Help: "Total number of environment checks",
		},
		[]string{"environment"},
	)

	// CheckFailuresTotal tracks environment checks that produced no result
	CheckFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_check_failures_total",
			Help: "Total number of failed environment checks",
		},
		[]string{"environment"},
	)

	// DiagnosticsTotal tracks emitted diagnostics per environment and metric
	DiagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_diagnostics_total",
			Help: "Total number of diagnostics emitted",
		},
		[]string{"environment", "metric"},
	)

	// ProbeLatency tracks node api and ping latency
	ProbeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodewatch_probe_latency_seconds",
			Help:    "Probe latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"probe"},
	)

	// ProbeErrorsTotal tracks failed probes by outcome
	ProbeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_probe_errors_total",
			Help: "Total number of failed probes",
		},
		[]string{"probe", "status"},
	)

	// MaxBlockHeight tracks the consensus block height of an environment
	MaxBlockHeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_max_block_height",
			Help: "Highest block height observed in the environment",
		},
		[]string{"environment"},
	)

	// ConsensusRatio tracks the share of hosts agreeing with the reference value
	ConsensusRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodewatch_consensus_ratio",
			Help: "Fraction of hosts matching the reference value",
		},
		[]string{"environment", "metric"},
	)

	// ReportsTotal tracks delivered and failed reports
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodewatch_reports_total",
			Help: "Total number of alert reports",
		},
		[]string{"result"},
	)
)
