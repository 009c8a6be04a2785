package domain

import (
	"net"
	"strconv"
)

// Host describes how to reach a node.
type Host struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	HTTPS   bool   `yaml:"https"`
}

// Endpoint returns host:port, or just the address when no port is set.
func (h Host) Endpoint() string {
	if h.Port == 0 {
		return h.Address
	}
	return net.JoinHostPort(h.Address, strconv.Itoa(h.Port))
}

// BaseURL returns the node api root URL.
func (h Host) BaseURL() string {
	scheme := "http"
	if h.HTTPS {
		scheme = "https"
	}
	return scheme + "://" + h.Endpoint()
}

// Label is the name used in diagnostics. Falls back to the endpoint.
func (h Host) Label() string {
	if h.Name != "" {
		return h.Name
	}
	return h.Endpoint()
}

// Observation is one node's state as seen by a single check cycle.
type Observation struct {
	Host    Host
	Height  HeightReading
	Version VersionReading
}

// Name returns the label diagnostics are attributed to.
func (o Observation) Name() string {
	return o.Host.Label()
}

// HostGroupSet holds the three disjoint host groups of one environment.
// Only NodesToMonitor produces diagnostics; all three feed consensus.
type HostGroupSet struct {
	BaseHosts      []Observation
	PeerNodes      []Observation
	NodesToMonitor []Observation
}

// Total is the number of hosts consensus is computed over.
func (g HostGroupSet) Total() int {
	return len(g.BaseHosts) + len(g.PeerNodes) + len(g.NodesToMonitor)
}

// All returns every observation, base hosts first.
func (g HostGroupSet) All() []Observation {
	all := make([]Observation, 0, g.Total())
	all = append(all, g.BaseHosts...)
	all = append(all, g.PeerNodes...)
	all = append(all, g.NodesToMonitor...)
	return all
}

// PingResult is the reachability probe outcome for one host.
type PingResult struct {
	Name string
	Up   bool
}
