package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"venue/internal/domain/event"
)

// EventStoreForSeed defines the store interface needed by event seeding.
type EventStoreForSeed interface {
	Save(ctx context.Context, e event.Event) error
	ListByDateRange(ctx context.Context, from, to string) ([]event.Event, error)
}

// SeedEventsDeps holds dependencies for SeedDemoEvents.
type SeedEventsDeps struct {
	EventStore EventStoreForSeed
}

// demoEvent is one development seed entry; dates are offsets from today so
// a fresh database always shows a populated calendar.
type demoEvent struct {
	Type            string
	Title           string
	Description     string
	DaysFromNow     int
	StartTime       string
	EndTime         string
	MaxParticipants int
}

var demoEvents = []demoEvent{
	{event.TypeCourse, "Beginners Pottery", "Wheel throwing for absolute beginners.", 3, "18:00", "20:00", 8},
	{event.TypeCourse, "Life Drawing", "Untutored session, all materials provided.", 5, "19:00", "21:00", 12},
	{event.TypePerformance, "Open Mic Night", "Music, poetry and comedy. Walk-ins welcome.", 7, "19:30", "22:00", 0},
	{event.TypeSpace, "Main Hall Hire", "Private hire of the main hall.", 10, "09:00", "17:00", 1},
	{event.TypePerformance, "Chamber Recital", "Local string quartet.", 14, "20:00", "21:30", 60},
}

// ExecuteSeedDemoEvents seeds a handful of upcoming events for development.
// Idempotent: a database that already has any event in the next 60 days is
// left alone.
// PRE: migrations applied
// POST: demo events exist once
func ExecuteSeedDemoEvents(ctx context.Context, deps SeedEventsDeps, createdBy string) error {
	today := time.Now()
	from := today.Format(event.DateLayout)
	to := today.AddDate(0, 0, 60).Format(event.DateLayout)

	existing, err := deps.EventStore.ListByDateRange(ctx, from, to)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range demoEvents {
		e := event.Event{
			ID:              uuid.New().String(),
			Type:            d.Type,
			Title:           d.Title,
			Description:     d.Description,
			EventDate:       today.AddDate(0, 0, d.DaysFromNow),
			StartTime:       d.StartTime,
			EndTime:         d.EndTime,
			MaxParticipants: d.MaxParticipants,
			IsActive:        true,
			CreatedBy:       createdBy,
			CreatedAt:       time.Now(),
		}
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return err
		}
	}

	slog.Info("demo_events_seeded", "count", len(demoEvents))
	return nil
}
