package probe

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/infra/nodeapi"
	"golang.org/x/sync/errgroup"
)

// peerStateConnected is the node api state code of an active peer.
const peerStateConnected = 2

// APIClient is the subset of nodeapi.Client the status probe needs.
type APIClient interface {
	Get(ctx context.Context, baseURL, path string, query url.Values, out any) error
}

// StatusProber reads block height and version from node apis.
type StatusProber struct {
	client       APIClient
	probe        config.ProbeConfig
	checkHeight  bool
	checkVersion bool
	log          *slog.Logger
}

// NewStatusProber creates a StatusProber. Metrics disabled in cfg are not fetched.
func NewStatusProber(client APIClient, cfg *config.AppConfig) *StatusProber {
	return &StatusProber{
		client:       client,
		probe:        cfg.Probe,
		checkHeight:  cfg.CheckBlockHeight,
		checkVersion: cfg.CheckVersion,
		log:          slog.Default().With("component", "status_prober"),
	}
}

type heightResponse struct {
	Height *uint64 `json:"height"`
}

type versionResponse struct {
	Version string `json:"version"`
}

type peer struct {
	IP      string  `json:"ip"`
	Port    int     `json:"port"`
	State   int     `json:"state"`
	Height  *uint64 `json:"height"`
	Version string  `json:"version"`
}

type peersResponse struct {
	Peers []peer `json:"peers"`
}

// Status observes the base hosts and monitored hosts of an environment and,
// when enabled, the connected peers reported by the base hosts.
func (p *StatusProber) Status(ctx context.Context, env *config.EnvironmentConfig, monitored []domain.Host) (domain.HostGroupSet, error) {
	var groups domain.HostGroupSet

	base, err := p.observeAll(ctx, env.BaseHosts)
	if err != nil {
		return groups, err
	}
	nodes, err := p.observeAll(ctx, monitored)
	if err != nil {
		return groups, err
	}

	groups.BaseHosts = base
	groups.NodesToMonitor = nodes

	if env.Peers.Discover {
		known := make(map[string]bool, len(env.BaseHosts)+len(monitored))
		for _, h := range env.BaseHosts {
			known[h.Endpoint()] = true
		}
		for _, h := range monitored {
			known[h.Endpoint()] = true
		}
		groups.PeerNodes = p.discoverPeers(ctx, env.BaseHosts, env.Peers.Limit, known)
	}

	return groups, nil
}

func (p *StatusProber) observeAll(ctx context.Context, hosts []domain.Host) ([]domain.Observation, error) {
	out := make([]domain.Observation, len(hosts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(p.probe.Concurrency))

	for i, h := range hosts {
		g.Go(func() error {
			out[i] = p.observe(gctx, h)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, ctx.Err()
}

func (p *StatusProber) observe(ctx context.Context, h domain.Host) domain.Observation {
	obs := domain.Observation{Host: h}

	if p.checkHeight {
		var resp heightResponse
		err := p.client.Get(ctx, h.BaseURL(), p.probe.HeightPath, nil, &resp)
		switch {
		case err != nil:
			p.log.Debug("Height request failed", "host", h.Label(), "error", err)
			obs.Height = domain.HeightFailed(nodeapi.StatusOf(err))
		case resp.Height == nil:
			obs.Height = domain.HeightFailed(domain.StatusServerError)
		case *resp.Height == 0:
			// a node that has not synced a single block is treated as down
			obs.Height = domain.HeightFailed(domain.StatusUnreachable)
		default:
			obs.Height = domain.HeightOK(*resp.Height)
		}
	}

	if p.checkVersion {
		var resp versionResponse
		err := p.client.Get(ctx, h.BaseURL(), p.probe.VersionPath, nil, &resp)
		switch {
		case err != nil:
			p.log.Debug("Version request failed", "host", h.Label(), "error", err)
			obs.Version = domain.VersionFailed(nodeapi.StatusOf(err))
		case resp.Version == "":
			obs.Version = domain.VersionFailed(domain.StatusServerError)
		default:
			obs.Version = domain.VersionOK(resp.Version)
		}
	}

	return obs
}

// discoverPeers asks base hosts in order for their connected peers and uses
// the first answer. Peers already known as base or monitored hosts are dropped.
func (p *StatusProber) discoverPeers(ctx context.Context, base []domain.Host, peerLimit int, known map[string]bool) []domain.Observation {
	query := url.Values{
		"state": {strconv.Itoa(peerStateConnected)},
		"limit": {strconv.Itoa(peerLimit)},
	}

	for _, h := range base {
		var resp peersResponse
		if err := p.client.Get(ctx, h.BaseURL(), p.probe.PeersPath, query, &resp); err != nil {
			p.log.Debug("Peer list request failed", "host", h.Label(), "error", err)
			continue
		}

		seen := make(map[string]bool, len(resp.Peers))
		var peers []domain.Observation
		for _, pr := range resp.Peers {
			if pr.State != peerStateConnected || pr.IP == "" {
				continue
			}
			ph := domain.Host{Address: pr.IP, Port: pr.Port}
			ep := ph.Endpoint()
			if known[ep] || seen[ep] {
				continue
			}
			seen[ep] = true
			peers = append(peers, p.peerObservation(ph, pr))
		}
		return peers
	}

	if len(base) > 0 {
		p.log.Warn("No base host returned a peer list")
	}
	return nil
}

// peerObservation turns second-hand peer data into an observation. Missing
// fields leave the reading unknown so consensus skips it.
func (p *StatusProber) peerObservation(h domain.Host, pr peer) domain.Observation {
	obs := domain.Observation{Host: h}
	if p.checkHeight && pr.Height != nil {
		obs.Height = domain.HeightOK(*pr.Height)
	}
	if p.checkVersion && pr.Version != "" {
		obs.Version = domain.VersionOK(pr.Version)
	}
	return obs
}
