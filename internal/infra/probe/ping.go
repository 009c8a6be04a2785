// Package probe collects raw observations from nodes: ICMP reachability and
// node api status.
package probe

import (
	"context"
	"log/slog"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
	"golang.org/x/sync/errgroup"
)

// pingFunc reports whether address answered at least one echo request.
type pingFunc func(ctx context.Context, address string) (bool, error)

// Pinger checks host reachability over ICMP.
type Pinger struct {
	concurrency int
	ping        pingFunc
	log         *slog.Logger
}

// NewPinger creates a Pinger from the probe settings.
func NewPinger(cfg config.ProbeConfig) *Pinger {
	return &Pinger{
		concurrency: cfg.Concurrency,
		ping:        icmpPing(cfg.PingCount, cfg.Timeout, cfg.Privileged),
		log:         slog.Default().With("component", "pinger"),
	}
}

func icmpPing(count int, timeout time.Duration, privileged bool) pingFunc {
	return func(ctx context.Context, address string) (bool, error) {
		pinger, err := probing.NewPinger(address)
		if err != nil {
			return false, err
		}
		pinger.Count = count
		pinger.Timeout = timeout
		pinger.SetPrivileged(privileged)

		if err := pinger.RunWithContext(ctx); err != nil {
			return false, err
		}
		return pinger.Statistics().PacketsRecv > 0, nil
	}
}

// Ping probes every host and returns results in input order.
func (p *Pinger) Ping(ctx context.Context, hosts []domain.Host) ([]domain.PingResult, error) {
	results := make([]domain.PingResult, len(hosts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(p.concurrency))

	for i, h := range hosts {
		g.Go(func() error {
			start := time.Now()
			up, err := p.ping(gctx, h.Address)
			metrics.ProbeLatency.WithLabelValues("ping").Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ProbeErrorsTotal.WithLabelValues("ping", domain.StatusUnreachable.String()).Inc()
				p.log.Debug("Ping failed", "host", h.Label(), "error", err)
			}
			results[i] = domain.PingResult{Name: h.Label(), Up: up}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

// limit turns a configured concurrency into an errgroup limit; <= 0 means unbounded.
func limit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
