package registration

import (
	"context"

	domain "venue/internal/domain/registration"
)

// Store persists Registration state.
type Store interface {
	// RegisterInterest creates a registration unless one already exists for
	// the (event, member) pair, enforcing the event's capacity atomically.
	// Returns the resulting row and whether it was newly created.
	RegisterInterest(ctx context.Context, reg domain.Registration, maxParticipants int) (domain.Registration, bool, error)
	GetByID(ctx context.Context, id string) (domain.Registration, error)
	GetByEventAndMember(ctx context.Context, eventID, memberID string) (domain.Registration, error)
	SetStatus(ctx context.Context, id, status string) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListLatest(ctx context.Context, limit, offset int) ([]domain.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
}
