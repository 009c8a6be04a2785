// Package classify turns host observations into diagnostic lines.
package classify

import (
	"errors"
	"fmt"

	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/consensus"
)

// ErrNoReading is returned when the metric was never collected for the host.
var ErrNoReading = errors.New("no reading for metric")

const (
	msgPingDown    = "Could not reach the server, it might be down!"
	msgUnreachable = "Could not reach the node api, it might be down!"
	msgForbidden   = "Node api access denied. Is the monitoring server ip whitelisted in the node's config?"
	msgServerError = "No (valid) response from the server, it might be down!"
)

// Classifier compares monitored hosts against the consensus of their environment.
type Classifier struct {
	maxBlocksBehind uint64
}

// New creates a Classifier with the given block height drift tolerance.
func New(maxBlocksBehind uint64) *Classifier {
	return &Classifier{maxBlocksBehind: maxBlocksBehind}
}

// Reachability reports a host the ping probe could not reach.
func Reachability(r domain.PingResult) (domain.Diagnostic, bool) {
	if r.Up {
		return domain.Diagnostic{}, false
	}
	return diagnostic(r.Name, domain.MetricReachability, msgPingDown), true
}

// BlockHeight classifies a host's block height. Sentinel states win over the
// drift check, in the order unreachable, forbidden, server error. A height of
// zero counts as unreachable.
func (c *Classifier) BlockHeight(obs domain.Observation, s consensus.Summary) (domain.Diagnostic, bool, error) {
	name := obs.Name()
	status := obs.Height.Status
	if status == domain.StatusOK && obs.Height.Value == 0 {
		status = domain.StatusUnreachable
	}
	switch status {
	case domain.StatusUnknown:
		return domain.Diagnostic{}, false, fmt.Errorf("%s block height: %w", name, ErrNoReading)
	case domain.StatusUnreachable:
		return diagnostic(name, domain.MetricBlockHeight, msgUnreachable), true, nil
	case domain.StatusForbidden:
		return diagnostic(name, domain.MetricBlockHeight, msgForbidden), true, nil
	case domain.StatusServerError:
		return diagnostic(name, domain.MetricBlockHeight, msgServerError), true, nil
	}

	height := obs.Height.Value
	// height < max - tolerance, without underflowing when max < tolerance
	if height+c.maxBlocksBehind >= s.MaxBlockHeight {
		return domain.Diagnostic{}, false, nil
	}

	text := fmt.Sprintf("incorrect block height %d (-%d)\nshould be %d\nconsensus %s",
		height, s.MaxBlockHeight-height, s.MaxBlockHeight,
		Consensus(s.BlockHeightConsensus, s.Total))
	return diagnostic(name, domain.MetricBlockHeight, text), true, nil
}

// Version classifies a host's software version against the reference version.
func (c *Classifier) Version(obs domain.Observation, s consensus.Summary) (domain.Diagnostic, bool, error) {
	name := obs.Name()
	switch obs.Version.Status {
	case domain.StatusUnknown:
		return domain.Diagnostic{}, false, fmt.Errorf("%s version: %w", name, ErrNoReading)
	case domain.StatusUnreachable:
		return diagnostic(name, domain.MetricVersion, msgUnreachable), true, nil
	case domain.StatusForbidden:
		return diagnostic(name, domain.MetricVersion, msgForbidden), true, nil
	case domain.StatusServerError:
		return diagnostic(name, domain.MetricVersion, msgServerError), true, nil
	}

	// An errored reference is not a version floor.
	if domain.IsSentinelVersion(s.ReferenceVersion) || obs.Version.Value >= s.ReferenceVersion {
		return domain.Diagnostic{}, false, nil
	}

	text := fmt.Sprintf("incorrect version %s\nshould be %s\nconsensus %s",
		obs.Version.Value, s.ReferenceVersion,
		Consensus(s.VersionConsensus, s.Total))
	return diagnostic(name, domain.MetricVersion, text), true, nil
}

func diagnostic(host string, metric domain.Metric, text string) domain.Diagnostic {
	return domain.Diagnostic{
		Host:   host,
		Metric: metric,
		Line:   host + ":\n" + text + "\n",
	}
}
