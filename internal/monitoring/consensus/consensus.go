// Package consensus computes the reference values a fleet of nodes agrees on.
package consensus

import "github.com/vietddude/nodewatch/internal/core/domain"

// Summary is the consensus state of one environment for one check cycle.
type Summary struct {
	MaxBlockHeight       uint64
	ReferenceVersion     string
	BlockHeightConsensus int
	VersionConsensus     int

	// Total is the number of hosts across all groups, including skipped ones.
	Total int

	// Hosts whose reading could not be used for the given metric.
	SkippedHeight  int
	SkippedVersion int
}

// Summarize computes the maximum block height and version across base hosts,
// peer nodes and monitored nodes, and how many hosts match each.
//
// Versions are compared as plain strings, so "10.0.0" sorts below "9.0.0".
// Failed readings take part through their sentinel encoding; readings that were
// never collected are skipped for that metric only.
func Summarize(groups domain.HostGroupSet) Summary {
	s := Summary{Total: groups.Total()}
	all := groups.All()

	for _, obs := range all {
		if obs.Height.Valid() {
			if h := domain.RawHeight(obs.Height); h > s.MaxBlockHeight {
				s.MaxBlockHeight = h
			}
		}
		if obs.Version.Valid() {
			if v := domain.RawVersion(obs.Version); v > s.ReferenceVersion {
				s.ReferenceVersion = v
			}
		}
	}

	for _, obs := range all {
		if obs.Height.Valid() {
			if domain.RawHeight(obs.Height) == s.MaxBlockHeight {
				s.BlockHeightConsensus++
			}
		} else {
			s.SkippedHeight++
		}
		if obs.Version.Valid() {
			if domain.RawVersion(obs.Version) == s.ReferenceVersion {
				s.VersionConsensus++
			}
		} else {
			s.SkippedVersion++
		}
	}

	return s
}
