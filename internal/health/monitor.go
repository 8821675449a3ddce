package health

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Pinger is implemented by upstream clients that can be probed cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the last observed state of one upstream.
type Status struct {
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor periodically probes registered upstreams and records their
// reachability for the health endpoint. It observes only; no probe result
// is ever served to user requests.
type Monitor struct {
	scheduler *gocron.Scheduler
	interval  time.Duration

	mu       sync.RWMutex
	targets  map[string]Pinger
	statuses map[string]Status
}

// New creates a Monitor probing every interval (minimum one minute).
func New(interval time.Duration) *Monitor {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Monitor{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		targets:   make(map[string]Pinger),
		statuses:  make(map[string]Status),
	}
}

// Register adds an upstream to probe. Must be called before Start.
func (m *Monitor) Register(name string, p Pinger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[name] = p
}

// Start schedules the periodic probe job and runs one probe immediately.
func (m *Monitor) Start() error {
	minutes := int(m.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := m.scheduler.Every(minutes).Minutes().Do(m.probeAll)
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	go m.probeAll()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (m *Monitor) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}

// Statuses returns a copy of the latest probe results.
func (m *Monitor) Statuses() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.statuses))
	for name, st := range m.statuses {
		out[name] = st
	}
	return out
}

func (m *Monitor) probeAll() {
	m.mu.RLock()
	targets := make(map[string]Pinger, len(m.targets))
	for name, p := range m.targets {
		targets[name] = p
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for name, p := range targets {
		name, p := name, p
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			st := Status{Healthy: true, CheckedAt: time.Now().UTC()}
			if err := p.Ping(ctx); err != nil {
				log.Printf("health: probe failed for %s: %v", name, err)
				st.Healthy = false
				st.Detail = err.Error()
			}

			m.mu.Lock()
			m.statuses[name] = st
			m.mu.Unlock()
		}()
	}
	wg.Wait()
}
