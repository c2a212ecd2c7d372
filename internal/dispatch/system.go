// Package dispatch implements ElevatorSystem: the bank-level dispatcher that
// performs admission search across cabins, breaks ties by nearest cabin,
// retries a global backlog of calls no cabin could accept, and applies the
// per-tick state update every request carries.
//
// System is pure, synchronous and lock-free, matching the spec's single-
// threaded core contract (§5). Concurrent callers are the Manager's job
// (internal/manager), not this package's.
package dispatch

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"github.com/dgarridoa/elevator-dispatch/internal/elevator"
	"github.com/dgarridoa/elevator-dispatch/internal/queue"
)

// System owns a fixed bank of elevators plus the backlog of calls none of
// them could accept yet.
type System struct {
	elevators []*elevator.Elevator
	nFloors   int
	backlog   *queue.Queue

	logger *slog.Logger
}

// New constructs a System with nElevators cabins (ids 0..nElevators-1),
// each serving floors [1, nFloors], holding an OUT call for wait before
// evicting it unused.
func New(nElevators, nFloors int, wait time.Duration, logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	elevators := make([]*elevator.Elevator, nElevators)
	for i := range elevators {
		elevators[i] = elevator.New(i, wait, logger)
	}
	return &System{
		elevators: elevators,
		nFloors:   nFloors,
		backlog:   queue.New(),
		logger:    logger.With("component", "dispatch"),
	}
}

// Elevators exposes the bank for read-only inspection (status, metrics).
func (s *System) Elevators() []*elevator.Elevator {
	return s.elevators
}

// NFloors returns the number of floors the system serves.
func (s *System) NFloors() int {
	return s.nFloors
}

// Available scans the bank in index order and returns every elevator whose
// CanAccept(c) is true.
func (s *System) Available(c *call.Call) []*elevator.Elevator {
	var candidates []*elevator.Elevator
	for _, e := range s.elevators {
		if e.CanAccept(c) {
			candidates = append(candidates, e)
		}
	}
	return candidates
}

// Nearest picks the candidate minimizing the absolute distance to c.Floor.
// Ties resolve to the first (lowest index) candidate via strict less-than.
func Nearest(candidates []*elevator.Elevator, c *call.Call) *elevator.Elevator {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	bestDist := best.Floor().Distance(c.Floor)
	for _, cand := range candidates[1:] {
		d := cand.Floor().Distance(c.Floor)
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

// TakeCall routes c to the nearest admissible elevator, or appends it to the
// system backlog if none can currently accept it.
func (s *System) TakeCall(c *call.Call) {
	candidates := s.Available(c)
	if len(candidates) > 0 {
		Nearest(candidates, c).TakeCall(c)
		return
	}
	s.backlog.Append(c)
	s.logger.Debug("call backlogged", "call_type", c.Type, "floor", c.Floor.Value())
}

// UpdateState advances every elevator's position and retries at most one
// backlog entry. state must contain an entry for every elevator id and no
// other id; UpdateState returns a validation error rather than mutating
// partially if any id is missing or unknown.
func (s *System) UpdateState(state map[int]domain.Floor, now time.Time) *domain.DomainError {
	for _, e := range s.elevators {
		if _, ok := state[e.ID()]; !ok {
			return domain.ErrUnknownElevatorID.WithContext("elevator_id", e.ID())
		}
	}
	for id := range state {
		if id < 0 || id >= len(s.elevators) {
			return domain.NewValidationError("state names an elevator id outside the bank", nil).
				WithContext("elevator_id", id)
		}
	}

	for _, e := range s.elevators {
		e.UpdatePosition(state[e.ID()], now)
	}

	if !s.backlog.IsEmpty() {
		c, err := s.backlog.Pop()
		if err != nil {
			s.logger.Error("unexpected empty backlog during retry", "error", err)
			return nil
		}
		s.TakeCall(c)
	}
	return nil
}

// Request is the full input to TakeRequest: the authoritative floor of every
// cabin at Timestamp, plus an optional new call.
type Request struct {
	Timestamp time.Time
	State     map[int]domain.Floor
	Call      *CallSpec
}

// CallSpec describes a call to admit, discriminated by Type. Timestamp is
// deliberately absent: per §9 Open Question 3, a call's timestamp is always
// the attend-time, assigned internally, never supplied by the caller.
type CallSpec struct {
	Type       call.Type
	Floor      int
	Sense      domain.Sense
	ElevatorID int
}

// TakeRequest validates Call if present, applies state (see UpdateState)
// and then admits the call (see TakeCall). Call.Floor must not exceed the
// system's serviced floor count. A rejected request leaves every elevator
// and the backlog unchanged.
func (s *System) TakeRequest(req Request) *domain.DomainError {
	var c *call.Call
	if req.Call != nil {
		if req.Call.Floor > s.nFloors {
			return domain.ErrFloorOutOfRange.
				WithContext("floor", req.Call.Floor).
				WithContext("n_floors", s.nFloors)
		}

		var err *domain.DomainError
		c, err = call.New(req.Call.Type, domain.NewFloor(req.Call.Floor), req.Call.Sense, req.Call.ElevatorID)
		if err != nil {
			return err
		}
	}

	if err := s.UpdateState(req.State, req.Timestamp); err != nil {
		return err
	}

	if c != nil {
		s.TakeCall(c)
	}
	return nil
}

// Render returns a human-readable multi-line summary: one line per elevator,
// a bracketed comma-separated list of queued floors in service order (tail
// last). Used for golden-file tests and returned by the HTTP request and
// render endpoints.
func (s *System) Render() string {
	var b strings.Builder
	for _, e := range s.elevators {
		floors := e.Queue().Floors()
		parts := make([]string, len(floors))
		for i, f := range floors {
			parts[i] = fmt.Sprintf("%d", f.Value())
		}
		fmt.Fprintf(&b, "%d: [%s]\n", e.ID(), strings.Join(parts, ", "))
	}
	return b.String()
}
