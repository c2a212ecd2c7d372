// Package elevator implements the per-cabin state machine: admission rules
// for new calls, taking a call onto the queue, reclaiming calls once the
// cabin has physically passed them, and advancing position on each tick.
//
// This is the synchronous core the spec's concurrency model (§5) describes:
// no locking, no background goroutines, no access to a real clock. Time
// flows only through the timestamps callers pass in.
package elevator

import (
	"log/slog"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"github.com/dgarridoa/elevator-dispatch/internal/queue"
)

// Elevator is one cabin in the bank.
type Elevator struct {
	id    int
	floor domain.Floor
	sense domain.Sense
	queue *queue.Queue
	wait  time.Duration

	logger *slog.Logger
}

// New constructs an Elevator at floor 1, idle, with an empty queue.
func New(id int, wait time.Duration, logger *slog.Logger) *Elevator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Elevator{
		id:     id,
		floor:  domain.NewFloor(1),
		sense:  domain.SenseIdle,
		queue:  queue.New(),
		wait:   wait,
		logger: logger.With("component", "elevator", "elevator_id", id),
	}
}

func (e *Elevator) ID() int             { return e.id }
func (e *Elevator) Floor() domain.Floor { return e.floor }
func (e *Elevator) Sense() domain.Sense { return e.sense }
func (e *Elevator) IsIdle() bool        { return e.sense == domain.SenseIdle }
func (e *Elevator) Queue() *queue.Queue { return e.queue }

// CanAccept reports whether this cabin may be assigned c, per §4.3's
// admission predicates.
func (e *Elevator) CanAccept(c *call.Call) bool {
	switch c.Type {
	case call.In:
		return e.canAcceptIn(c)
	default:
		return e.canAcceptOut(c)
	}
}

// canAcceptIn requires the call be bound to this cabin, the queue
// non-empty (the rider is already aboard, having been picked up by a
// still-queued OUT), and the tail's sense matching the new call's sense.
// An IN call on an empty queue is rejected — see DESIGN.md Open Question 1.
func (e *Elevator) canAcceptIn(c *call.Call) bool {
	if c.ElevatorID != e.id {
		return false
	}
	if e.queue.IsEmpty() {
		return false
	}
	return e.queue.Tail().Sense == c.Sense
}

// canAcceptOut accepts unconditionally on an empty queue. Otherwise it
// requires the cabin's current sense to match the call's sense AND the
// call's floor to lie ahead of the cabin along that sense. See DESIGN.md
// Open Question 2 for why both conditions are required (the original
// source's operator precedence bug dropped the sense check on DOWN).
func (e *Elevator) canAcceptOut(c *call.Call) bool {
	if e.queue.IsEmpty() {
		return true
	}
	if e.sense != c.Sense {
		return false
	}
	if e.sense == domain.SenseUp {
		return e.floor <= c.Floor
	}
	return e.floor >= c.Floor
}

// TakeCall assigns c to this cabin. Callers must only invoke this after
// CanAccept(c) returned true; TakeCall itself performs no admission check.
func (e *Elevator) TakeCall(c *call.Call) {
	if c.Type == call.In {
		e.reclaimAnswered(time.Time{}, false)
	}

	if e.floor <= c.Floor {
		e.sense = domain.SenseUp
	} else {
		e.sense = domain.SenseDown
	}
	e.queue.Append(c)

	e.logger.Debug("call taken",
		"call_type", c.Type, "call_floor", c.Floor.Value(), "sense", e.sense.String())
}

// UpdatePosition is the per-tick hook: the cabin's authoritative floor is
// externally driven (no real motion model), it attends the tail call if
// arrived, and reclaims the tail once it is eligible for eviction.
func (e *Elevator) UpdatePosition(newFloor domain.Floor, now time.Time) {
	e.floor = newFloor

	if e.queue.IsEmpty() {
		return
	}

	tail := e.queue.Tail()
	if e.floor == tail.Floor {
		tail.Attend(now)
	}

	e.reclaimAnswered(now, true)
}

// reclaimAnswered pops the tail in a loop while the cabin has reached or
// passed it. withDeadline controls whether OUT calls additionally respect
// the wait grace period (true during UpdatePosition; false when TakeCall
// evicts the OUT that just delivered a passenger for a new IN call, which
// must happen immediately regardless of wait).
func (e *Elevator) reclaimAnswered(now time.Time, withDeadline bool) {
	for {
		if e.queue.IsEmpty() {
			e.sense = domain.SenseIdle
			return
		}

		tail := e.queue.Tail()
		reached := false
		if e.sense == domain.SenseUp {
			reached = e.floor >= tail.Floor
		} else {
			reached = e.floor <= tail.Floor
		}
		if !reached {
			return
		}

		if !e.eligibleForEviction(tail, now, withDeadline) {
			return
		}

		if _, err := e.queue.Pop(); err != nil {
			e.logger.Error("unexpected empty queue during reclaim", "error", err)
			return
		}
	}
}

func (e *Elevator) eligibleForEviction(tail *call.Call, now time.Time, withDeadline bool) bool {
	if tail.NotAttended() {
		return false
	}
	if tail.Type == call.In {
		return true
	}
	if !withDeadline {
		return true
	}
	return now.Sub(tail.Timestamp) > e.wait
}
