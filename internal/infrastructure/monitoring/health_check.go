package monitoring

import (
	"context"
	"sync"
	"time"
)

// Probe reports readiness of one dependency, typically the conference store
// or the session backend.
type Probe struct {
	Name    string
	Check   func(ctx context.Context) error
	Timeout time.Duration
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

type HealthChecker struct {
	mu     sync.RWMutex
	probes []Probe
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

func (h *HealthChecker) AddProbe(name string, timeout time.Duration, check func(ctx context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.probes = append(h.probes, Probe{Name: name, Check: check, Timeout: timeout})
}

// CheckAll runs every probe with its own timeout. The aggregate status is
// "unhealthy" if any probe fails.
func (h *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	for _, probe := range h.probes {
		probeCtx, cancel := context.WithTimeout(ctx, probe.Timeout)
		err := probe.Check(probeCtx)
		cancel()

		if err != nil {
			status.Status = "unhealthy"
			status.Checks[probe.Name] = err.Error()
			continue
		}
		status.Checks[probe.Name] = "healthy"
	}

	return status
}
