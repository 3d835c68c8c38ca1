package projections

import (
	"context"

	domainEvent "venue/internal/domain/event"
	domainMember "venue/internal/domain/member"
	domainRegistration "venue/internal/domain/registration"
)

// EventStore interface for event queries.
type EventStore interface {
	GetByID(ctx context.Context, id string) (domainEvent.Event, error)
	ListByDateRange(ctx context.Context, from, to string) ([]domainEvent.Event, error)
	ListByDate(ctx context.Context, date string) ([]domainEvent.Event, error)
}

// RegistrationStore interface for registration queries.
type RegistrationStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]domainRegistration.Registration, error)
	ListLatest(ctx context.Context, limit, offset int) ([]domainRegistration.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
}

// MemberStore interface for member lookups used to enrich rows.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
}
