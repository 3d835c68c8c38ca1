package projections

import (
	"context"

	"venue/internal/domain/calendar"
	domainEvent "venue/internal/domain/event"
)

// Audience selects which variant of the month view is built.
type Audience int

const (
	// AudienceStaff sees every event, including inactive ones, with
	// staff-only fields present.
	AudienceStaff Audience = iota
	// AudiencePublic sees active events only, stripped of staff-only fields.
	AudiencePublic
)

// EventSummary is one event as it appears in a calendar cell or day list.
type EventSummary struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	MaxParticipants int    `json:"max_participants,omitempty"`
	// Staff-only fields; zero-valued for the public audience.
	IsActive  bool   `json:"is_active,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
}

// DayCell is one day of the 42-cell month grid.
type DayCell struct {
	Date           string         `json:"date"` // YYYY-MM-DD
	InCurrentMonth bool           `json:"in_current_month"`
	Events         []EventSummary `json:"events"`
}

// MonthView is the renderable month grid for one cursor position.
type MonthView struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	PrevYear  int       `json:"prev_year"`
	PrevMonth int       `json:"prev_month"`
	NextYear  int       `json:"next_year"`
	NextMonth int       `json:"next_month"`
	Cells     []DayCell `json:"cells"`
}

// MonthViewDeps holds dependencies for GetMonthView.
type MonthViewDeps struct {
	EventStore EventStore
}

// GetMonthView aggregates one month into the fixed 42-cell grid. Events
// from the leading and trailing adjacent-month days are included; the
// cursor is normalized, so out-of-range months roll into the adjacent
// year. Pure read: safe to call repeatedly and concurrently.
// PRE: deps.EventStore is non-nil
// POST: exactly 42 cells; the first cell's date is a Sunday
func GetMonthView(ctx context.Context, deps MonthViewDeps, cursor calendar.Cursor, audience Audience) (MonthView, error) {
	cursor = cursor.Normalize()
	from := cursor.GridStart().Format(domainEvent.DateLayout)
	to := cursor.GridEnd().Format(domainEvent.DateLayout)

	events, err := deps.EventStore.ListByDateRange(ctx, from, to)
	if err != nil {
		return MonthView{}, err
	}
	if audience == AudiencePublic {
		events = filterActive(events)
	}

	grid := calendar.BuildGrid(cursor, events)

	view := MonthView{
		Year:  cursor.Year,
		Month: cursor.Month,
		Cells: make([]DayCell, 0, calendar.GridCells),
	}
	prev, next := cursor.Prev(), cursor.Next()
	view.PrevYear, view.PrevMonth = prev.Year, prev.Month
	view.NextYear, view.NextMonth = next.Year, next.Month

	for _, cell := range grid.Cells {
		dc := DayCell{
			Date:           cell.Date.Format(domainEvent.DateLayout),
			InCurrentMonth: cell.InCurrentMonth,
			Events:         make([]EventSummary, 0, len(cell.Events)),
		}
		for _, e := range cell.Events {
			dc.Events = append(dc.Events, summarize(e, audience))
		}
		view.Cells = append(view.Cells, dc)
	}
	return view, nil
}

// GetDayEvents lists one day's events for the given audience, used to
// refresh a single day after a mutation without rebuilding the grid.
// PRE: date is a YYYY-MM-DD string
func GetDayEvents(ctx context.Context, deps MonthViewDeps, date string, audience Audience) ([]EventSummary, error) {
	events, err := deps.EventStore.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if audience == AudiencePublic {
		events = filterActive(events)
	}
	summaries := make([]EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, summarize(e, audience))
	}
	return summaries, nil
}

func summarize(e domainEvent.Event, audience Audience) EventSummary {
	s := EventSummary{
		ID:              e.ID,
		Type:            e.Type,
		Title:           e.Title,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		MaxParticipants: e.MaxParticipants,
	}
	if audience == AudienceStaff {
		s.IsActive = e.IsActive
		s.CreatedBy = e.CreatedBy
	}
	return s
}

func filterActive(events []domainEvent.Event) []domainEvent.Event {
	active := events[:0]
	for _, e := range events {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active
}
