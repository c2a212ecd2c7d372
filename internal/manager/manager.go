// Package manager implements the concurrency-safe host around the
// dispatcher core (C6): a single mutex serializing every entry into
// dispatch.System, with Prometheus metrics and structured logging/tracing
// wrapped around each call. Grounded on the teacher's internal/manager —
// same mutex-guarded-wrapper-plus-metrics shape, generalized from per-
// elevator CRUD to the spec's single dispatch entry point.
package manager

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	"github.com/dgarridoa/elevator-dispatch/metrics"
	"go.opentelemetry.io/otel/trace"
)

// Manager is the multi-threaded host the spec's §5 anticipates: the
// dispatcher core itself is single-threaded, so every external caller must
// come through here.
type Manager struct {
	mu     sync.Mutex
	system *dispatch.System

	logger *slog.Logger
	tracer trace.Tracer
}

// New wraps system behind a mutex, ready to serve concurrent callers.
func New(system *dispatch.System, logger *slog.Logger, tracer trace.Tracer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		system: system,
		logger: logger.With("component", "manager"),
		tracer: tracer,
	}
}

// TakeRequest serializes access to the dispatcher core for one request,
// recording metrics and a trace span around the call. It returns the
// rendered system state after applying the request, which the HTTP layer
// sends back as the response to that request.
func (m *Manager) TakeRequest(ctx context.Context, req dispatch.Request) (string, *domain.DomainError) {
	_, span := m.tracer.Start(ctx, "manager.TakeRequest")
	defer span.End()

	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.system.TakeRequest(req); err != nil {
		metrics.IncError(string(err.Type))
		metrics.IncRequestsTotal("error")
		m.logger.Warn("request rejected", "error", err, "error_type", err.Type)
		return "", err
	}

	metrics.RecordRequestDuration(time.Since(start).Seconds())
	metrics.IncRequestsTotal("success")
	m.recordElevatorMetricsLocked()

	return m.system.Render(), nil
}

// Render returns the current rendered state without mutating anything.
func (m *Manager) Render() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.system.Render()
}

// Status returns a read-only snapshot of every elevator, suitable for JSON
// responses and the WebSocket stream.
func (m *Manager) Status() []domain.ElevatorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	elevators := m.system.Elevators()
	statuses := make([]domain.ElevatorStatus, len(elevators))
	for i, e := range elevators {
		statuses[i] = domain.NewElevatorStatus(e.ID(), e.Floor(), e.Sense(), e.Queue().Floors())
	}
	return statuses
}

// IsHealthy reports whether the dispatcher can currently be reached (the
// mutex is not deadlocked) — a TryLock probe, matching the teacher's
// health-check pattern of a cheap non-blocking liveness signal.
func (m *Manager) IsHealthy() bool {
	if !m.mu.TryLock() {
		return false
	}
	m.mu.Unlock()
	return true
}

// recordElevatorMetricsLocked must be called with m.mu held.
func (m *Manager) recordElevatorMetricsLocked() {
	for _, e := range m.system.Elevators() {
		id := strconv.Itoa(e.ID())
		metrics.SetElevatorFloor(id, float64(e.Floor().Value()))
		metrics.SetElevatorPendingRequests(id, float64(e.Queue().Len()))
	}
	metrics.SetSystemHealthy(true)
}
