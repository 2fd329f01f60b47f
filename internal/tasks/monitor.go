package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/agilsa/GorbyJump/internal/logger"
)

// ServerStatus is the connectivity monitor's last verdict.
type ServerStatus string

const (
	ServerChecking     ServerStatus = "checking"
	ServerConnected    ServerStatus = "connected"
	ServerDisconnected ServerStatus = "disconnected"
)

// HealthAPI is the liveness probe surface.
type HealthAPI interface {
	Health(ctx context.Context) error
}

// Monitor probes the verification backend on a fixed interval and
// gates whether linking actions are attempted. It never cancels
// in-flight verifications.
type Monitor struct {
	api      HealthAPI
	interval time.Duration

	mu     sync.RWMutex
	status ServerStatus

	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewMonitor(api HealthAPI, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		api:      api,
		interval: interval,
		status:   ServerChecking,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes immediately, then on every tick, until Close.
func (m *Monitor) Start() {
	m.started = true
	go func() {
		defer close(m.done)

		m.probe()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	next := ServerConnected
	if err := m.api.Health(ctx); err != nil {
		next = ServerDisconnected
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	if prev != next {
		logger.Info("server status changed", map[string]any{
			"from": string(prev),
			"to":   string(next),
		})
	}
}

// ProbeNow runs one synchronous probe and returns the verdict. One-shot
// callers use it in place of the interval loop.
func (m *Monitor) ProbeNow() ServerStatus {
	m.probe()
	return m.Status()
}

// Status returns the last probe verdict.
func (m *Monitor) Status() ServerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Connected reports whether the last probe reached the backend.
func (m *Monitor) Connected() bool {
	return m.Status() == ServerConnected
}

// Close stops the probe loop and waits for it to exit. Safe to call
// when Start never ran.
func (m *Monitor) Close() {
	m.once.Do(func() { close(m.stop) })
	if m.started {
		<-m.done
	}
}

// BalanceProvider is the opaque wallet collaborator outside this core.
type BalanceProvider interface {
	GetBalance(ctx context.Context, account string) (float64, error)
}

// BalanceWatcher polls the wallet balance on its own interval,
// independent of task activity.
type BalanceWatcher struct {
	provider BalanceProvider
	account  string
	interval time.Duration

	mu      sync.RWMutex
	balance float64

	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewBalanceWatcher(provider BalanceProvider, account string, interval time.Duration) *BalanceWatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &BalanceWatcher{
		provider: provider,
		account:  account,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (b *BalanceWatcher) Start() {
	b.started = true
	go func() {
		defer close(b.done)

		b.refresh()

		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.refresh()
			case <-b.stop:
				return
			}
		}
	}()
}

func (b *BalanceWatcher) refresh() {
	if b.account == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	amount, err := b.provider.GetBalance(ctx, b.account)
	if err != nil {
		logger.Error("balance refresh failed", map[string]any{
			"error": err.Error(),
		})
		b.mu.Lock()
		b.balance = 0
		b.mu.Unlock()
		return
	}

	b.mu.Lock()
	b.balance = amount
	b.mu.Unlock()
}

// Balance returns the last fetched amount.
func (b *BalanceWatcher) Balance() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balance
}

// Close stops the poll loop and waits for it to exit. Safe to call
// when Start never ran.
func (b *BalanceWatcher) Close() {
	b.once.Do(func() { close(b.stop) })
	if b.started {
		<-b.done
	}
}
