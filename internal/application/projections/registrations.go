package projections

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainEvent "venue/internal/domain/event"
	domainRegistration "venue/internal/domain/registration"
)

// EventDetail is one event with its live registration count.
type EventDetail struct {
	Event             domainEvent.Event
	RegistrationCount int // non-cancelled registrations
	SpotsRemaining    int // -1 when unlimited
}

// EventDetailDeps holds dependencies for GetEventDetail.
type EventDetailDeps struct {
	EventStore        EventStore
	RegistrationStore RegistrationStore
}

// GetEventDetail loads one event together with its current capacity usage.
// The count is read live, never cached, so a just-mutated registration is
// reflected immediately.
// PRE: id is non-empty
// POST: returns the detail, or sql.ErrNoRows for an unknown event
func GetEventDetail(ctx context.Context, deps EventDetailDeps, id string) (EventDetail, error) {
	e, err := deps.EventStore.GetByID(ctx, id)
	if err != nil {
		return EventDetail{}, err
	}
	count, err := deps.RegistrationStore.CountActiveByEvent(ctx, id)
	if err != nil {
		return EventDetail{}, err
	}

	detail := EventDetail{Event: e, RegistrationCount: count, SpotsRemaining: -1}
	if e.HasCapacityLimit() {
		detail.SpotsRemaining = e.MaxParticipants - count
		if detail.SpotsRemaining < 0 {
			detail.SpotsRemaining = 0
		}
	}
	return detail, nil
}

// RegistrationRow is one registration enriched for staff listings.
type RegistrationRow struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventDate  string    `json:"event_date"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegistrationListDeps holds dependencies for the registration listings.
type RegistrationListDeps struct {
	RegistrationStore RegistrationStore
	EventStore        EventStore
	MemberStore       MemberStore
}

// GetLatestRegistrations returns a page of the recency feed enriched with
// member names and event titles.
// PRE: limit > 0, offset >= 0
// POST: rows ordered by created_at descending, id descending on ties
func GetLatestRegistrations(ctx context.Context, deps RegistrationListDeps, limit, offset int) ([]RegistrationRow, error) {
	regs, err := deps.RegistrationStore.ListLatest(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return enrich(ctx, deps, regs)
}

// GetEventRegistrations lists an event's registrations, newest first.
// PRE: eventID is non-empty
func GetEventRegistrations(ctx context.Context, deps RegistrationListDeps, eventID string) ([]RegistrationRow, error) {
	regs, err := deps.RegistrationStore.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return enrich(ctx, deps, regs)
}

// EnrichRegistrations joins display fields onto registrations obtained
// elsewhere, such as a poller snapshot.
func EnrichRegistrations(ctx context.Context, deps RegistrationListDeps, regs []domainRegistration.Registration) ([]RegistrationRow, error) {
	return enrich(ctx, deps, regs)
}

// enrich joins member names and event titles onto raw registrations.
// Rows whose member or event has since vanished keep their ids with blank
// display fields rather than being dropped.
func enrich(ctx context.Context, deps RegistrationListDeps, regs []domainRegistration.Registration) ([]RegistrationRow, error) {
	rows := make([]RegistrationRow, 0, len(regs))
	for _, r := range regs {
		row := RegistrationRow{
			ID:        r.ID,
			EventID:   r.EventID,
			MemberID:  r.MemberID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if m, err := deps.MemberStore.GetByID(ctx, r.MemberID); err == nil {
			row.MemberName = m.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if e, err := deps.EventStore.GetByID(ctx, r.EventID); err == nil {
			row.EventTitle = e.Title
			row.EventDate = e.EventDate.Format(domainEvent.DateLayout)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
