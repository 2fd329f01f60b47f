package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type MockHealth struct {
	HealthFunc func(ctx context.Context) error
}

func (m *MockHealth) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func TestMonitorStartsChecking(t *testing.T) {
	m := NewMonitor(&MockHealth{}, time.Hour)
	if m.Status() != ServerChecking {
		t.Errorf("initial status = %s, want checking", m.Status())
	}
	if m.Connected() {
		t.Error("checking must not count as connected")
	}
}

func TestMonitorProbeNow(t *testing.T) {
	healthy := true
	m := NewMonitor(&MockHealth{
		HealthFunc: func(ctx context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("unreachable")
		},
	}, time.Hour)

	if got := m.ProbeNow(); got != ServerConnected {
		t.Errorf("status = %s, want connected", got)
	}
	if !m.Connected() {
		t.Error("Connected() = false after successful probe")
	}

	healthy = false
	if got := m.ProbeNow(); got != ServerDisconnected {
		t.Errorf("status = %s, want disconnected", got)
	}
	if m.Connected() {
		t.Error("Connected() = true after failed probe")
	}
}

func TestMonitorLoopProbesAndStops(t *testing.T) {
	probes := make(chan struct{}, 16)
	m := NewMonitor(&MockHealth{
		HealthFunc: func(ctx context.Context) error {
			select {
			case probes <- struct{}{}:
			default:
			}
			return nil
		},
	}, 10*time.Millisecond)

	m.Start()

	// First probe fires immediately, then on the interval.
	for i := 0; i < 3; i++ {
		select {
		case <-probes:
		case <-time.After(time.Second):
			t.Fatal("probe loop stalled")
		}
	}

	m.Close()

	// Drain, then verify no further probes arrive.
	for {
		select {
		case <-probes:
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	select {
	case <-probes:
		t.Error("probe fired after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

type MockBalance struct {
	GetBalanceFunc func(ctx context.Context, account string) (float64, error)
}

func (m *MockBalance) GetBalance(ctx context.Context, account string) (float64, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, account)
	}
	return 0, nil
}

func TestBalanceWatcherRefreshes(t *testing.T) {
	b := NewBalanceWatcher(&MockBalance{
		GetBalanceFunc: func(ctx context.Context, account string) (float64, error) {
			if account != "wallet-1" {
				t.Errorf("account = %q", account)
			}
			return 1.25, nil
		},
	}, "wallet-1", 10*time.Millisecond)

	b.Start()
	defer b.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if b.Balance() == 1.25 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Errorf("balance = %v, want 1.25", b.Balance())
}

func TestBalanceWatcherErrorZeroesBalance(t *testing.T) {
	failing := false
	b := NewBalanceWatcher(&MockBalance{
		GetBalanceFunc: func(ctx context.Context, account string) (float64, error) {
			if failing {
				return 0, errors.New("rpc down")
			}
			return 2.5, nil
		},
	}, "wallet-1", time.Hour)

	b.refresh()
	if b.Balance() != 2.5 {
		t.Fatalf("balance = %v, want 2.5", b.Balance())
	}

	failing = true
	b.refresh()
	if b.Balance() != 0 {
		t.Errorf("balance = %v, want 0 after failed refresh", b.Balance())
	}
}
