package domain

// Metric names what a diagnostic is about.
type Metric string

const (
	MetricReachability Metric = "reachability"
	MetricBlockHeight  Metric = "block_height"
	MetricVersion      Metric = "version"
)

// Diagnostic is one rendered alert line attributable to a host and metric.
type Diagnostic struct {
	Host   string
	Metric Metric
	Line   string
}
