package event

import (
	"context"

	domain "venue/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	Save(ctx context.Context, e domain.Event) error
	GetByID(ctx context.Context, id string) (domain.Event, error)
	ListByDateRange(ctx context.Context, from, to string) ([]domain.Event, error)
	ListByDate(ctx context.Context, date string) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
}
