package event

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Default event type constants. The full set is configurable (VENUE_EVENT_TYPES);
// these are the fallback when no configuration is present.
const (
	TypeCourse      = "course"      // class or workshop series occurrence
	TypePerformance = "performance" // public show or concert
	TypeSpace       = "space"       // room/space rental slot
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// Date and time storage layouts. Dates are plain calendar dates (no time
// zone component); times are wall-clock HH:MM within the event's day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TypeSet is the closed set of allowed event types.
type TypeSet map[string]struct{}

// DefaultTypes returns the built-in event type set.
// PRE: none
// POST: returns a set containing course, performance, space
func DefaultTypes() TypeSet {
	return TypeSet{
		TypeCourse:      {},
		TypePerformance: {},
		TypeSpace:       {},
	}
}

// ParseTypes builds a TypeSet from a comma-separated configuration value.
// PRE: none
// POST: returns the parsed set, or the default set when csv is blank
func ParseTypes(csv string) (TypeSet, error) {
	if strings.TrimSpace(csv) == "" {
		return DefaultTypes(), nil
	}
	set := TypeSet{}
	for _, part := range strings.Split(csv, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errors.New("event type list cannot be empty")
	}
	return set, nil
}

// Contains reports whether t is an allowed type.
// INVARIANT: the set is not mutated
func (ts TypeSet) Contains(t string) bool {
	_, ok := ts[t]
	return ok
}

// String returns the sorted-insertion comma-separated form for error messages.
func (ts TypeSet) String() string {
	names := make([]string, 0, len(ts))
	for t := range ts {
		names = append(names, t)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Event represents one scheduled occurrence (course session, performance,
// or space rental) on a single calendar date.
// PRE: Title is non-empty. Type is in the configured TypeSet. EventDate is set.
// INVARIANT: EndTime >= StartTime when both are set (no cross-midnight spans).
// INVARIANT: MaxParticipants >= 0; zero means unlimited.
type Event struct {
	ID              string
	Type            string
	Title           string
	Description     string // markdown; rendered to HTML for public views
	EventDate       time.Time
	StartTime       string // "HH:MM", empty when unset
	EndTime         string // "HH:MM", empty when unset
	MaxParticipants int    // 0 = unlimited
	IsActive        bool
	CreatedBy       string // account ID
	CreatedAt       time.Time
}

// Validate checks the event's invariants against the configured type set.
// PRE: types is non-empty
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate(types TypeSet) error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title cannot be empty")
	}
	if len(e.Title) > MaxTitleLength {
		return errors.New("event title cannot exceed 200 characters")
	}
	if !types.Contains(e.Type) {
		return fmt.Errorf("event type must be one of: %s", types)
	}
	if e.EventDate.IsZero() {
		return errors.New("event date is required")
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("event description cannot exceed 5000 characters")
	}
	if err := validateTime("start time", e.StartTime); err != nil {
		return err
	}
	if err := validateTime("end time", e.EndTime); err != nil {
		return err
	}
	if e.StartTime != "" && e.EndTime != "" && e.EndTime < e.StartTime {
		return errors.New("event end time cannot be before start time")
	}
	if e.MaxParticipants < 0 {
		return errors.New("max participants must be a positive number")
	}
	return nil
}

// HasCapacityLimit reports whether the event caps registrations.
// INVARIANT: Event fields are not mutated
func (e *Event) HasCapacityLimit() bool {
	return e.MaxParticipants > 0
}

// IsPast reports whether the event's date is strictly before today.
// "Past" is computed, never stored.
// PRE: today is a date-precision time (clock component ignored)
func (e *Event) IsPast(today time.Time) bool {
	return e.EventDate.Format(DateLayout) < today.Format(DateLayout)
}

func validateTime(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(TimeLayout, v); err != nil {
		return fmt.Errorf("event %s must be HH:MM", field)
	}
	return nil
}
