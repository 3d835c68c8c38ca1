package registration

import (
	"errors"
	"time"
)

// Status constants. The set is flat: staff may move a registration from any
// status to any other. The public register action only ever produces
// StatusInterested.
const (
	StatusInterested = "interested"
	StatusContacted  = "contacted"
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusPending    = "pending"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{
	StatusInterested,
	StatusContacted,
	StatusConfirmed,
	StatusCancelled,
	StatusPending,
}

// Business outcome errors.
var (
	// ErrCapacityExceeded means the event's max_participants is reached by
	// non-cancelled registrations. A business outcome, not a storage fault.
	ErrCapacityExceeded = errors.New("event is at capacity")
	// ErrInvalidStatus means a write carried a status outside ValidStatuses.
	ErrInvalidStatus = errors.New("status must be one of: interested, contacted, confirmed, cancelled, pending")
)

// Registration records a member's expressed interest in attending an Event.
// INVARIANT: at most one Registration exists per (EventID, MemberID) pair.
// INVARIANT: CreatedAt is set once and never changes.
type Registration struct {
	ID        string
	EventID   string
	MemberID  string
	Status    string
	CreatedAt time.Time
}

// Validate checks the registration's invariants.
// PRE: fields may be empty (validation will catch this)
// POST: returns nil if valid, error with descriptive message otherwise
func (r *Registration) Validate() error {
	if r.EventID == "" {
		return errors.New("event_id is required")
	}
	if r.MemberID == "" {
		return errors.New("member_id is required")
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether s is in the closed status set.
// PRE: none
// POST: returns true only for the five known statuses
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CountsAgainstCapacity reports whether this registration consumes a slot.
// Cancelled registrations free capacity; every other status holds it.
// INVARIANT: Registration fields are not mutated
func (r *Registration) CountsAgainstCapacity() bool {
	return r.Status != StatusCancelled
}
