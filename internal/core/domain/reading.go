package domain

import "cmp"

// Status tags the outcome of a single metric lookup against a node.
type Status uint8

const (
	StatusUnknown     Status = iota // metric not collected or record malformed
	StatusOK                        // node answered with a real value
	StatusUnreachable               // no response at all
	StatusForbidden                 // node api refused access (403)
	StatusServerError               // node answered without a usable value
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnreachable:
		return "unreachable"
	case StatusForbidden:
		return "forbidden"
	case StatusServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Reading is one metric value observed on a host, or the reason it is missing.
type Reading[T cmp.Ordered] struct {
	Status Status
	Value  T
}

// Valid reports whether the reading takes part in consensus at all.
func (r Reading[T]) Valid() bool {
	return r.Status != StatusUnknown
}

// HeightReading is a block height observation.
type HeightReading = Reading[uint64]

// VersionReading is a software version observation.
type VersionReading = Reading[string]

func HeightOK(h uint64) HeightReading { return HeightReading{Status: StatusOK, Value: h} }

func HeightFailed(s Status) HeightReading { return HeightReading{Status: s} }

func VersionOK(v string) VersionReading { return VersionReading{Status: StatusOK, Value: v} }

func VersionFailed(s Status) VersionReading { return VersionReading{Status: s} }

// Raw height sentinels, as reported by the legacy monitor.
const (
	RawUnreachableHeight uint64 = 0
	RawForbiddenHeight   uint64 = 403
	RawServerErrorHeight uint64 = 500
)

// Raw version sentinels.
const (
	RawUnreachableVersion = ""
	RawForbiddenVersion   = "403"
	RawServerErrorVersion = "500"
)

// RawHeight returns the height in its sentinel encoding. Consensus is computed
// over these values so failed hosts still compare the way they always have.
func RawHeight(r HeightReading) uint64 {
	switch r.Status {
	case StatusUnreachable:
		return RawUnreachableHeight
	case StatusForbidden:
		return RawForbiddenHeight
	case StatusServerError:
		return RawServerErrorHeight
	default:
		return r.Value
	}
}

// RawVersion returns the version in its sentinel encoding.
func RawVersion(r VersionReading) string {
	switch r.Status {
	case StatusUnreachable:
		return RawUnreachableVersion
	case StatusForbidden:
		return RawForbiddenVersion
	case StatusServerError:
		return RawServerErrorVersion
	default:
		return r.Value
	}
}

// IsSentinelVersion reports whether v is one of the error codes rather than a
// real version string.
func IsSentinelVersion(v string) bool {
	return v == RawForbiddenVersion || v == RawServerErrorVersion
}
