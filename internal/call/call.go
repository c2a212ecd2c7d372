// Package call defines the Call value type: a single request for elevator
// service, either a destination selection from inside a cabin (an IN call) or
// a hall call from a landing (an OUT call).
package call

import (
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/domain"
)

// Type distinguishes where a call originated.
type Type string

const (
	// In is a destination request issued from inside a specific cabin.
	In Type = "in"
	// Out is a hall call issued at a landing, with no cabin preference.
	Out Type = "out"
)

func (t Type) IsValid() bool {
	return t == In || t == Out
}

// Call is an immutable-by-convention value describing one request. The only
// mutation it permits is Attend, a single-shot latch.
type Call struct {
	Type       Type
	Floor      domain.Floor
	Sense      domain.Sense
	ElevatorID int // meaningful only when Type == In
	Timestamp  time.Time
	notAttended bool
}

// New validates and constructs a Call. elevatorID is ignored for Out calls.
func New(callType Type, floor domain.Floor, sense domain.Sense, elevatorID int) (*Call, *domain.DomainError) {
	if !callType.IsValid() {
		return nil, domain.ErrInvalidCallType
	}
	if !sense.IsValid() {
		return nil, domain.ErrInvalidSense
	}
	if floor.Value() < 1 {
		return nil, domain.NewValidationError("floor must be a positive integer", nil).
			WithContext("floor", floor.Value())
	}
	if callType == In && elevatorID < 0 {
		return nil, domain.ErrMissingElevatorID
	}

	return &Call{
		Type:        callType,
		Floor:       floor,
		Sense:       sense,
		ElevatorID:  elevatorID,
		notAttended: true,
	}, nil
}

// NotAttended reports whether the call has not yet been serviced.
func (c *Call) NotAttended() bool {
	return c.notAttended
}

// Attend is the one-shot latch: the first call sets Timestamp and flips
// NotAttended to false. Subsequent calls are no-ops.
func (c *Call) Attend(t time.Time) {
	if !c.notAttended {
		return
	}
	c.Timestamp = t
	c.notAttended = false
}

// Equal compares every field except the attended latch (not_attended itself
// is excluded per spec §4.1; Timestamp is compared like every other field).
func (c *Call) Equal(other *Call) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Type == other.Type &&
		c.Floor == other.Floor &&
		c.Sense == other.Sense &&
		c.ElevatorID == other.ElevatorID &&
		c.Timestamp.Equal(other.Timestamp)
}
