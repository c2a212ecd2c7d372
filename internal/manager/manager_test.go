package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	system := dispatch.New(3, 10, 10*time.Second, nil)
	return New(system, nil, noop.NewTracerProvider().Tracer("test"))
}

func TestTakeRequestAppliesStateAndCall(t *testing.T) {
	m := newTestManager(t)

	rendered, err := m.TakeRequest(context.Background(), dispatch.Request{
		Timestamp: time.Now(),
		State:     map[int]domain.Floor{0: domain.NewFloor(5), 1: domain.NewFloor(3), 2: domain.NewFloor(10)},
		Call:      &dispatch.CallSpec{Type: call.Out, Floor: 2, Sense: domain.SenseUp},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rendered == "" {
		t.Fatal("expected a non-empty render")
	}
}

func TestTakeRequestSurfacesValidationErrorsWithoutMutating(t *testing.T) {
	m := newTestManager(t)

	before := m.Render()

	_, err := m.TakeRequest(context.Background(), dispatch.Request{
		Timestamp: time.Now(),
		State:     map[int]domain.Floor{0: domain.NewFloor(1), 1: domain.NewFloor(1), 2: domain.NewFloor(1)},
		Call:      &dispatch.CallSpec{Type: call.Out, Floor: 999, Sense: domain.SenseUp},
	})
	if err == nil {
		t.Fatal("expected an out-of-range floor error")
	}

	after := m.Render()
	if before != after {
		t.Error("expected render to be unchanged after a rejected request (the call itself must not land anywhere)")
	}
}

func TestConcurrentRequestsAreSerialized(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sense := domain.SenseUp
			if i%2 == 0 {
				sense = domain.SenseDown
			}
			_, _ = m.TakeRequest(context.Background(), dispatch.Request{
				Timestamp: time.Now(),
				State:     map[int]domain.Floor{0: domain.NewFloor(1), 1: domain.NewFloor(1), 2: domain.NewFloor(1)},
				Call:      &dispatch.CallSpec{Type: call.Out, Floor: (i % 9) + 1, Sense: sense},
			})
		}(i)
	}
	wg.Wait()

	if !m.IsHealthy() {
		t.Error("expected manager to remain healthy and unlocked after concurrent access")
	}
}

func TestStatusReflectsElevatorCount(t *testing.T) {
	m := newTestManager(t)
	statuses := m.Status()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
}
