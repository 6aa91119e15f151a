package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/factcheck/internal/models"
)

type HealthChecker interface {
	Health(ctx context.Context) (*models.HealthResponse, error)
}

type Status int32

const (
	StatusUnknown Status = iota
	StatusReady
	StatusModelNotLoaded
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "model ready"
	case StatusModelNotLoaded:
		return "model not loaded"
	case StatusUnreachable:
		return "service unreachable"
	default:
		return "checking"
	}
}

// ServiceHealth holds the last observed status of the prediction service.
type ServiceHealth struct {
	status atomic.Int32
}

func (h *ServiceHealth) Load() Status {
	return Status(h.status.Load())
}

func (h *ServiceHealth) store(s Status) bool {
	return Status(h.status.Swap(int32(s))) != s
}

// Probe runs a single health check.
func Probe(ctx context.Context, checker HealthChecker) Status {
	resp, err := checker.Health(ctx)
	switch {
	case err != nil:
		slog.Warn("[HealthCheck] Prediction service is unreachable", slog.String("error", err.Error()))
		return StatusUnreachable
	case !resp.ModelLoaded:
		slog.Warn("[HealthCheck] Prediction service has no model loaded", slog.String("status", resp.Status))
		return StatusModelNotLoaded
	default:
		return StatusReady
	}
}

// MonitorServiceHealth checks right away and then on every interval until ctx
// is done. onChange, when set, is called whenever the status changes.
func MonitorServiceHealth(ctx context.Context, checker HealthChecker, interval time.Duration, health *ServiceHealth, onChange func(Status)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		status := Probe(ctx, checker)
		if ctx.Err() != nil {
			return
		}
		if health.store(status) && onChange != nil {
			onChange(status)
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
