// Package queue implements ElevatorQueue: the directionally-sorted sequence
// of pending calls owned by one cabin.
package queue

import (
	"sort"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
)

// Queue holds the calls assigned to one elevator, kept sorted so the tail is
// always the next call to service.
type Queue struct {
	calls []*call.Call
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// IsEmpty reports whether the queue holds no calls.
func (q *Queue) IsEmpty() bool {
	return len(q.calls) == 0
}

// Len returns the number of queued calls.
func (q *Queue) Len() int {
	return len(q.calls)
}

// Append pushes c onto the queue and re-sorts so the tail is the next call
// to service: when c.Sense is UP the tail is the smallest floor (ascending
// walk up), when DOWN the tail is the largest floor (descending walk down).
func (q *Queue) Append(c *call.Call) {
	q.calls = append(q.calls, c)

	if c.Sense == domain.SenseUp {
		sort.Slice(q.calls, func(i, j int) bool {
			return q.calls[i].Floor > q.calls[j].Floor
		})
	} else {
		sort.Slice(q.calls, func(i, j int) bool {
			return q.calls[i].Floor < q.calls[j].Floor
		})
	}
}

// Tail peeks at the next call to service without removing it. Returns nil
// if the queue is empty.
func (q *Queue) Tail() *call.Call {
	if q.IsEmpty() {
		return nil
	}
	return q.calls[len(q.calls)-1]
}

// Pop removes and returns the tail. It is a programmer-contract violation to
// call Pop on an empty queue; callers must check IsEmpty first.
func (q *Queue) Pop() (*call.Call, *domain.DomainError) {
	if q.IsEmpty() {
		return nil, domain.ErrEmptyQueuePop
	}
	last := len(q.calls) - 1
	c := q.calls[last]
	q.calls = q.calls[:last]
	return c, nil
}

// Floors returns the queued floors in service order (tail last), the shape
// Render needs.
func (q *Queue) Floors() []domain.Floor {
	floors := make([]domain.Floor, len(q.calls))
	for i, c := range q.calls {
		floors[i] = c.Floor
	}
	return floors
}

// Equal reports whether two queues hold pairwise-equal calls in the same
// order.
func (q *Queue) Equal(other *Queue) bool {
	if q.Len() != other.Len() {
		return false
	}
	for i := range q.calls {
		if !q.calls[i].Equal(other.calls[i]) {
			return false
		}
	}
	return true
}
