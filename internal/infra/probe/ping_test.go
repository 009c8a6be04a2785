package probe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/vietddude/nodewatch/internal/core/domain"
)

func TestPinger_Ping(t *testing.T) {
	var calls atomic.Int32
	p := &Pinger{
		concurrency: 2,
		ping: func(ctx context.Context, address string) (bool, error) {
			calls.Add(1)
			switch address {
			case "10.0.0.1":
				return true, nil
			case "bad host":
				return false, errors.New("lookup failed")
			default:
				return false, nil
			}
		},
		log: testLogger(),
	}

	hosts := []domain.Host{
		{Name: "a", Address: "10.0.0.1"},
		{Name: "b", Address: "10.0.0.2"},
		{Address: "bad host"},
	}

	results, err := p.Ping(context.Background(), hosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 pings, got %d", calls.Load())
	}

	want := []domain.PingResult{{Name: "a", Up: true}, {Name: "b"}, {Name: "bad host"}}
	for i, w := range want {
		if results[i] != w {
			t.Errorf("result %d: got %+v, want %+v", i, results[i], w)
		}
	}
}

func TestPinger_CancelledContext(t *testing.T) {
	p := &Pinger{
		ping: func(ctx context.Context, address string) (bool, error) { return false, ctx.Err() },
		log:  testLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Ping(ctx, []domain.Host{{Address: "x"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
