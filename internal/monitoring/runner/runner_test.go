package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/checker"
)

// =============================================================================
// Fakes
// =============================================================================

type staticHosts map[domain.EnvironmentID][]domain.Host

func (s staticHosts) MonitoredHosts(id domain.EnvironmentID) []domain.Host {
	return s[id]
}

type fakeChecker struct {
	results map[domain.EnvironmentID]checker.Result
	errs    map[domain.EnvironmentID]error
	panics  map[domain.EnvironmentID]bool
	checked []domain.EnvironmentID
}

func (f *fakeChecker) Check(ctx context.Context, env domain.Environment, monitored []domain.Host) (checker.Result, error) {
	f.checked = append(f.checked, env.ID)
	if f.panics[env.ID] {
		panic("probe exploded")
	}
	return f.results[env.ID], f.errs[env.ID]
}

type fakeReporter struct {
	messages []string
	err      error
}

func (f *fakeReporter) Name() string { return "fake" }

func (f *fakeReporter) Report(ctx context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func diag(host, line string) domain.Diagnostic {
	return domain.Diagnostic{Host: host, Metric: domain.MetricBlockHeight, Line: line}
}

func one() []domain.Host { return []domain.Host{{Name: "n", Address: "10.0.0.1"}} }

// =============================================================================
// Tests
// =============================================================================

func TestRunner_NoHostsConfigured(t *testing.T) {
	chk := &fakeChecker{}
	rep := &fakeReporter{}

	report, err := New(staticHosts{}, chk, rep).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Message != "" {
		t.Errorf("expected empty message, got %q", report.Message)
	}
	if len(chk.checked) != 0 {
		t.Errorf("expected no checks, got %v", chk.checked)
	}
	if len(rep.messages) != 0 {
		t.Error("reporter must not be called when everything is healthy")
	}
	if len(report.Environments) != 10 {
		t.Errorf("expected 10 environment reports, got %d", len(report.Environments))
	}
	for _, er := range report.Environments {
		if !er.Skipped {
			t.Errorf("%s should be skipped", er.Environment.ID)
		}
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
}

func TestRunner_AssemblesInFixedOrder(t *testing.T) {
	hosts := staticHosts{
		domain.EnvShiftTest: one(),
		domain.EnvLiskMain:  one(),
		domain.EnvOxyMain:   one(),
	}
	chk := &fakeChecker{results: map[domain.EnvironmentID]checker.Result{
		domain.EnvShiftTest: {Diagnostics: []domain.Diagnostic{diag("s", "s:\nbad\n")}},
		domain.EnvLiskMain:  {Diagnostics: []domain.Diagnostic{diag("a", "a:\nbad\n"), diag("b", "b:\nworse\n")}},
	}}
	rep := &fakeReporter{}

	report, err := New(hosts, chk, rep).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "***Lisk main***\na:\nbad\n\nb:\nworse\n\n***Shift test***\ns:\nbad\n\n"
	if report.Message != want {
		t.Errorf("unexpected message:\n%q\nwant\n%q", report.Message, want)
	}
	if len(rep.messages) != 1 || rep.messages[0] != want {
		t.Errorf("expected exactly one delivery, got %v", rep.messages)
	}
	if !report.Delivered {
		t.Error("expected report to be marked delivered")
	}

	wantOrder := []domain.EnvironmentID{domain.EnvLiskMain, domain.EnvOxyMain, domain.EnvShiftTest}
	if len(chk.checked) != len(wantOrder) {
		t.Fatalf("unexpected checks %v", chk.checked)
	}
	for i, id := range wantOrder {
		if chk.checked[i] != id {
			t.Errorf("check %d: got %s, want %s", i, chk.checked[i], id)
		}
	}
}

func TestRunner_IsolatesFailures(t *testing.T) {
	hosts := staticHosts{
		domain.EnvLiskMain: one(),
		domain.EnvLwfMain:  one(),
		domain.EnvOnzMain:  one(),
	}
	chk := &fakeChecker{
		results: map[domain.EnvironmentID]checker.Result{
			domain.EnvLiskMain: {Diagnostics: []domain.Diagnostic{diag("x", "x:\nhalf\n")}},
			domain.EnvOnzMain:  {Diagnostics: []domain.Diagnostic{diag("o", "o:\nbad\n")}},
		},
		errs:   map[domain.EnvironmentID]error{domain.EnvLiskMain: errors.New("env file missing")},
		panics: map[domain.EnvironmentID]bool{domain.EnvLwfMain: true},
	}
	rep := &fakeReporter{}

	report, err := New(hosts, chk, rep).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Message != "***Onz main***\no:\nbad\n\n" {
		t.Errorf("unexpected message %q", report.Message)
	}

	failed := 0
	for _, er := range report.Environments {
		if er.Err != nil {
			failed++
			if len(er.Result.Diagnostics) != 0 {
				t.Errorf("%s: failed environment must contribute no diagnostics", er.Environment.ID)
			}
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 failed environments, got %d", failed)
	}
}

func TestRunner_ReportError(t *testing.T) {
	hosts := staticHosts{domain.EnvOxyTest: one()}
	chk := &fakeChecker{results: map[domain.EnvironmentID]checker.Result{
		domain.EnvOxyTest: {Diagnostics: []domain.Diagnostic{diag("n", "n:\ndown\n")}},
	}}
	rep := &fakeReporter{err: errors.New("telegram down")}

	report, err := New(hosts, chk, rep).Run(context.Background())
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if report == nil || report.Delivered {
		t.Error("report should be returned and not marked delivered")
	}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{"empty", nil, ""},
		{"block without lines", []Block{{Name: "Lisk main"}}, ""},
		{"single", []Block{{Name: "Oxy test", Lines: []string{"a"}}}, "***Oxy test***\na\n"},
		{
			"several",
			[]Block{{Name: "A", Lines: []string{"1", "2"}}, {Name: "B", Lines: []string{"3"}}},
			"***A***\n1\n2\n***B***\n3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assemble(tt.blocks); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
