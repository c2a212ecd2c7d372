package elevator

import (
	"testing"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
)

func mustCall(t *testing.T, ct call.Type, floor int, sense domain.Sense, elevatorID int) *call.Call {
	t.Helper()
	c, err := call.New(ct, domain.NewFloor(floor), sense, elevatorID)
	if err != nil {
		t.Fatalf("unexpected error building call: %v", err)
	}
	return c
}

func TestNewElevatorStartsIdleAtFloorOne(t *testing.T) {
	e := New(0, 10*time.Second, nil)
	if e.Floor() != domain.NewFloor(1) {
		t.Errorf("expected floor 1, got %v", e.Floor())
	}
	if !e.IsIdle() {
		t.Error("expected new elevator to be idle")
	}
	if !e.Queue().IsEmpty() {
		t.Error("expected new elevator to have an empty queue")
	}
}

func TestCanAcceptOutOnEmptyQueueAlwaysAccepts(t *testing.T) {
	e := New(0, 10*time.Second, nil)
	c := mustCall(t, call.Out, 7, domain.SenseUp, -1)
	if !e.CanAccept(c) {
		t.Error("expected an idle elevator with an empty queue to accept any OUT call")
	}
}

func TestCanAcceptOutRequiresSenseAndDirectionAhead(t *testing.T) {
	e := New(0, 10*time.Second, nil)
	e.TakeCall(mustCall(t, call.Out, 5, domain.SenseUp, -1))
	e.UpdatePosition(domain.NewFloor(3), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))

	// Moving UP, now at floor 3, already committed to floor 5.
	ahead := mustCall(t, call.Out, 8, domain.SenseUp, -1)
	if !e.CanAccept(ahead) {
		t.Error("expected a call ahead in the same sense to be accepted")
	}

	behind := mustCall(t, call.Out, 2, domain.SenseUp, -1)
	if e.CanAccept(behind) {
		t.Error("expected a call behind the cabin's current floor (going up) to be rejected")
	}

	wrongSense := mustCall(t, call.Out, 8, domain.SenseDown, -1)
	if e.CanAccept(wrongSense) {
		t.Error("expected a call with the opposite sense to be rejected")
	}
}

func TestCanAcceptInRequiresNonEmptyQueueAndMatchingElevatorAndSense(t *testing.T) {
	e := New(3, 10*time.Second, nil)

	in := mustCall(t, call.In, 9, domain.SenseUp, 3)
	if e.CanAccept(in) {
		t.Error("expected an IN call on an empty queue to be rejected")
	}

	e.TakeCall(mustCall(t, call.Out, 5, domain.SenseUp, -1))

	wrongElevator := mustCall(t, call.In, 9, domain.SenseUp, 4)
	if e.CanAccept(wrongElevator) {
		t.Error("expected an IN call bound to a different elevator to be rejected")
	}

	wrongSense := mustCall(t, call.In, 9, domain.SenseDown, 3)
	if e.CanAccept(wrongSense) {
		t.Error("expected an IN call with a sense not matching the tail to be rejected")
	}

	if !e.CanAccept(in) {
		t.Error("expected a matching IN call to be accepted")
	}
}

func TestTakeCallSetsSenseFromFloorComparison(t *testing.T) {
	up := New(0, 10*time.Second, nil)
	up.TakeCall(mustCall(t, call.Out, 5, domain.SenseUp, -1))
	if up.Sense() != domain.SenseUp {
		t.Errorf("expected sense UP, got %v", up.Sense())
	}

	down := New(0, 10*time.Second, nil)
	down.UpdatePosition(domain.NewFloor(8), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	down.TakeCall(mustCall(t, call.Out, 3, domain.SenseDown, -1))
	if down.Sense() != domain.SenseDown {
		t.Errorf("expected sense DOWN, got %v", down.Sense())
	}
}

func TestUpdatePositionAttendsAndHoldsForWait(t *testing.T) {
	e := New(0, 10*time.Second, nil)
	e.TakeCall(mustCall(t, call.Out, 5, domain.SenseUp, -1))

	t0 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	e.UpdatePosition(domain.NewFloor(5), t0)

	if e.Queue().IsEmpty() {
		t.Fatal("expected OUT call to still be queued immediately after arrival (within wait)")
	}
	if e.IsIdle() {
		t.Error("expected elevator to remain non-idle while holding for wait")
	}

	e.UpdatePosition(domain.NewFloor(5), t0.Add(11*time.Second))
	if !e.Queue().IsEmpty() {
		t.Error("expected OUT call to be evicted once wait has elapsed")
	}
	if !e.IsIdle() {
		t.Error("expected elevator to become idle once its queue empties")
	}
}

func TestTakeCallForInEvictsTheDeliveringOut(t *testing.T) {
	e := New(2, 10*time.Second, nil)
	e.TakeCall(mustCall(t, call.Out, 5, domain.SenseUp, -1))

	t0 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	e.UpdatePosition(domain.NewFloor(5), t0)
	if e.Queue().Len() != 1 {
		t.Fatalf("expected OUT call still held, got len %d", e.Queue().Len())
	}

	e.TakeCall(mustCall(t, call.In, 9, domain.SenseUp, 2))

	if e.Queue().Len() != 1 {
		t.Fatalf("expected exactly the new IN call queued after evicting the OUT, got len %d", e.Queue().Len())
	}
	if e.Queue().Tail().Floor != domain.NewFloor(9) {
		t.Errorf("expected tail floor 9, got %v", e.Queue().Tail().Floor)
	}
}

func TestReclaimAnsweredGoesIdleWhenQueueEmpties(t *testing.T) {
	e := New(0, 0, nil)
	e.TakeCall(mustCall(t, call.Out, 3, domain.SenseUp, -1))

	t0 := time.Now()
	e.UpdatePosition(domain.NewFloor(3), t0)
	e.UpdatePosition(domain.NewFloor(3), t0.Add(time.Millisecond))

	if !e.IsIdle() {
		t.Error("expected elevator to go idle after its only call is reclaimed")
	}
}
