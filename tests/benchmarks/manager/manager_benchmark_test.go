package manager_benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"github.com/dgarridoa/elevator-dispatch/internal/manager"
	"go.opentelemetry.io/otel/trace/noop"
)

func newBenchmarkManager(nElevators, nFloors int) *manager.Manager {
	system := dispatch.New(nElevators, nFloors, 10*time.Second, nil)
	return manager.New(system, nil, noop.NewTracerProvider().Tracer("benchmark"))
}

func stateFor(nElevators int) map[int]domain.Floor {
	state := make(map[int]domain.Floor, nElevators)
	for i := 0; i < nElevators; i++ {
		state[i] = domain.NewFloor(1)
	}
	return state
}

// BenchmarkManager_TakeRequest benchmarks a single dispatch request: state
// update plus one call admission, under the manager's lock.
func BenchmarkManager_TakeRequest(b *testing.B) {
	ctx := context.Background()
	mgr := newBenchmarkManager(5, 100)
	state := stateFor(5)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		floor := (i % 90) + 1
		_, err := mgr.TakeRequest(ctx, dispatch.Request{
			Timestamp: time.Now(),
			State:     state,
			Call:      &dispatch.CallSpec{Type: call.Out, Floor: floor, Sense: domain.SenseUp},
		})
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkManager_ConcurrentRequests benchmarks the mutex-serialized path
// under concurrent load.
func BenchmarkManager_ConcurrentRequests(b *testing.B) {
	ctx := context.Background()
	mgr := newBenchmarkManager(10, 100)
	state := stateFor(10)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			floor := (counter % 90) + 1
			_, err := mgr.TakeRequest(ctx, dispatch.Request{
				Timestamp: time.Now(),
				State:     state,
				Call:      &dispatch.CallSpec{Type: call.Out, Floor: floor, Sense: domain.SenseUp},
			})
			if err != nil {
				b.Logf("request failed: %v", err)
			}
			counter++
		}
	})
}

// BenchmarkManager_Render benchmarks rendering the current system state.
func BenchmarkManager_Render(b *testing.B) {
	mgr := newBenchmarkManager(10, 50)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = mgr.Render()
	}
}

// BenchmarkManager_Status benchmarks the structured status snapshot used by
// /v1/status and the WebSocket push.
func BenchmarkManager_Status(b *testing.B) {
	mgr := newBenchmarkManager(50, 50)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = mgr.Status()
	}
}

// BenchmarkManager_IsHealthy benchmarks the non-blocking health probe.
func BenchmarkManager_IsHealthy(b *testing.B) {
	mgr := newBenchmarkManager(5, 50)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = mgr.IsHealthy()
	}
}

// BenchmarkManager_MemoryUsage benchmarks allocation behavior of a full
// dispatch + request cycle, construction included.
func BenchmarkManager_MemoryUsage(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		mgr := newBenchmarkManager(5, 50)
		state := stateFor(5)

		for k := 0; k < 5; k++ {
			_, _ = mgr.TakeRequest(ctx, dispatch.Request{
				Timestamp: time.Now(),
				State:     state,
				Call:      &dispatch.CallSpec{Type: call.Out, Floor: k + 1, Sense: domain.SenseUp},
			})
		}

		_ = mgr.Status()
		_ = mgr.Render()
	}
}
