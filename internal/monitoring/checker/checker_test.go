package checker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/core/domain"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeEnvs struct {
	err error
}

func (f *fakeEnvs) LoadEnvironment(id domain.EnvironmentID) (*config.EnvironmentConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &config.EnvironmentConfig{}, nil
}

type fakePinger struct {
	down  map[string]bool
	calls int
}

func (f *fakePinger) Ping(ctx context.Context, hosts []domain.Host) ([]domain.PingResult, error) {
	f.calls++
	out := make([]domain.PingResult, len(hosts))
	for i, h := range hosts {
		out[i] = domain.PingResult{Name: h.Label(), Up: !f.down[h.Label()]}
	}
	return out, nil
}

type fakeStatus struct {
	groups domain.HostGroupSet
	err    error
	calls  int
}

func (f *fakeStatus) Status(ctx context.Context, env *config.EnvironmentConfig, monitored []domain.Host) (domain.HostGroupSet, error) {
	f.calls++
	return f.groups, f.err
}

func observation(name string, height domain.HeightReading, version domain.VersionReading) domain.Observation {
	return domain.Observation{Host: domain.Host{Name: name, Address: name}, Height: height, Version: version}
}

var lisk = domain.Environment{ID: domain.EnvLiskMain, Name: "Lisk main"}

// =============================================================================
// Tests
// =============================================================================

func TestChecker_AllChecks(t *testing.T) {
	cfg := &config.AppConfig{CheckPing: true, CheckBlockHeight: true, CheckVersion: true, MaxBlocksBehind: 5}

	pinger := &fakePinger{down: map[string]bool{"A": true}}
	status := &fakeStatus{groups: domain.HostGroupSet{
		BaseHosts: []domain.Observation{
			observation("base", domain.HeightOK(100), domain.VersionOK("1.0.1")),
		},
		NodesToMonitor: []domain.Observation{
			observation("A", domain.HeightFailed(domain.StatusUnreachable), domain.VersionFailed(domain.StatusUnreachable)),
			observation("B", domain.HeightOK(90), domain.VersionOK("1.0.0")),
			observation("C", domain.HeightOK(100), domain.VersionOK("1.0.1")),
		},
	}}

	c := New(cfg, &fakeEnvs{}, pinger, status)
	monitored := []domain.Host{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	result, err := c.Check(context.Background(), lisk, monitored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		host   string
		metric domain.Metric
	}{
		{"A", domain.MetricReachability},
		{"A", domain.MetricBlockHeight},
		{"A", domain.MetricVersion},
		{"B", domain.MetricBlockHeight},
		{"B", domain.MetricVersion},
	}
	if len(result.Diagnostics) != len(want) {
		t.Fatalf("expected %d diagnostics, got %d: %+v", len(want), len(result.Diagnostics), result.Diagnostics)
	}
	for i, w := range want {
		d := result.Diagnostics[i]
		if d.Host != w.host || d.Metric != w.metric {
			t.Errorf("diagnostic %d: got %s/%s, want %s/%s", i, d.Host, d.Metric, w.host, w.metric)
		}
	}

	if !strings.Contains(result.Diagnostics[3].Line, "consensus 50.0% 2/4") {
		t.Errorf("unexpected block height line %q", result.Diagnostics[3].Line)
	}
	if result.Summary == nil || result.Summary.MaxBlockHeight != 100 {
		t.Errorf("unexpected summary %+v", result.Summary)
	}
}

func TestChecker_FlagsDisableProbes(t *testing.T) {
	pinger := &fakePinger{}
	status := &fakeStatus{}

	c := New(&config.AppConfig{}, &fakeEnvs{}, pinger, status)
	result, err := c.Check(context.Background(), lisk, []domain.Host{{Name: "A"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pinger.calls != 0 || status.calls != 0 {
		t.Errorf("expected no probes, got ping=%d status=%d", pinger.calls, status.calls)
	}
	if len(result.Diagnostics) != 0 || result.Summary != nil {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestChecker_OnlyVersion(t *testing.T) {
	cfg := &config.AppConfig{CheckVersion: true}
	status := &fakeStatus{groups: domain.HostGroupSet{
		NodesToMonitor: []domain.Observation{
			{Host: domain.Host{Name: "A"}, Version: domain.VersionOK("1.0.0")},
			{Host: domain.Host{Name: "B"}, Version: domain.VersionOK("0.9.0")},
		},
	}}

	result, err := New(cfg, &fakeEnvs{}, &fakePinger{}, status).Check(context.Background(), lisk, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Host != "B" {
		t.Errorf("expected a single version diagnostic for B, got %+v", result.Diagnostics)
	}
}

func TestChecker_MissingReadingSkipsHost(t *testing.T) {
	cfg := &config.AppConfig{CheckBlockHeight: true, CheckVersion: true}
	status := &fakeStatus{groups: domain.HostGroupSet{
		BaseHosts: []domain.Observation{observation("base", domain.HeightOK(100), domain.VersionOK("2"))},
		NodesToMonitor: []domain.Observation{
			{Host: domain.Host{Name: "partial"}, Version: domain.VersionOK("1")},
			observation("behind", domain.HeightOK(1), domain.VersionOK("2")),
		},
	}}

	result, err := New(cfg, &fakeEnvs{}, &fakePinger{}, status).Check(context.Background(), lisk, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", result.Diagnostics)
	}
	if result.Diagnostics[0].Host != "partial" || result.Diagnostics[0].Metric != domain.MetricVersion {
		t.Errorf("expected version diagnostic for partial host, got %+v", result.Diagnostics[0])
	}
	if result.Diagnostics[1].Host != "behind" {
		t.Errorf("expected the next host to be classified, got %+v", result.Diagnostics[1])
	}
}

func TestChecker_Errors(t *testing.T) {
	cfg := &config.AppConfig{CheckBlockHeight: true}

	if _, err := New(cfg, &fakeEnvs{err: errors.New("no file")}, &fakePinger{}, &fakeStatus{}).
		Check(context.Background(), lisk, nil); err == nil {
		t.Error("expected environment load error")
	}

	if _, err := New(cfg, &fakeEnvs{}, &fakePinger{}, &fakeStatus{err: context.DeadlineExceeded}).
		Check(context.Background(), lisk, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped status error, got %v", err)
	}
}
