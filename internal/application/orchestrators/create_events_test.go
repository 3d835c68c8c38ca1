package orchestrators

import (
	"context"
	"errors"
	"testing"

	"venue/internal/domain/event"
)

// mockEventStore implements EventStoreForCreate with optional per-save failures.
type mockEventStore struct {
	saved   []event.Event
	failByDate map[string]error
}

// Save implements EventStoreForCreate.
// PRE: e is validated by the orchestrator
// POST: event is recorded, or the configured failure returned
func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	if err, ok := m.failByDate[e.EventDate.Format(event.DateLayout)]; ok {
		return err
	}
	m.saved = append(m.saved, e)
	return nil
}

func batchDeps(store *mockEventStore) CreateEventsDeps {
	return CreateEventsDeps{EventStore: store, Types: event.DefaultTypes()}
}

func courseTemplate() EventTemplate {
	return EventTemplate{
		Type:            event.TypeCourse,
		Title:           "Beginners Pottery",
		Description:     "Wheel throwing.",
		StartTime:       "18:00",
		EndTime:         "20:00",
		MaxParticipants: 8,
		IsActive:        true,
		CreatedBy:       "admin-001",
	}
}

// TestExecuteCreateEvents_OnePerDate verifies N distinct dates yield N events
// sharing template fields.
func TestExecuteCreateEvents_OnePerDate(t *testing.T) {
	store := &mockEventStore{}
	dates := []string{"2025-03-12", "2025-03-10", "2025-03-11"}

	result, err := ExecuteCreateEvents(context.Background(), CreateEventsInput{
		Template: courseTemplate(),
		Dates:    dates,
	}, batchDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SuccessCount != 3 || result.FailCount != 0 {
		t.Fatalf("result = %+v, want 3 successes", result)
	}
	if len(result.CreatedIDs) != 3 || len(store.saved) != 3 {
		t.Fatalf("created %d ids, saved %d rows", len(result.CreatedIDs), len(store.saved))
	}

	gotDates := map[string]bool{}
	for _, e := range store.saved {
		gotDates[e.EventDate.Format(event.DateLayout)] = true
		if e.Title != "Beginners Pottery" || e.Type != event.TypeCourse || e.MaxParticipants != 8 {
			t.Errorf("template fields not shared: %+v", e)
		}
		if e.ID == "" {
			t.Error("event missing generated ID")
		}
	}
	for _, d := range dates {
		if !gotDates[d] {
			t.Errorf("no event created for %s", d)
		}
	}
}

// TestExecuteCreateEvents_DuplicatesCollapsed verifies duplicate input dates
// are collapsed before creation, not treated as spurious failures.
func TestExecuteCreateEvents_DuplicatesCollapsed(t *testing.T) {
	store := &mockEventStore{}
	result, err := ExecuteCreateEvents(context.Background(), CreateEventsInput{
		Template: courseTemplate(),
		Dates:    []string{"2025-03-01", "2025-03-01", "2025-03-02"},
	}, batchDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 2 || result.FailCount != 0 {
		t.Errorf("result = %+v, want exactly 2 successes and no failures", result)
	}
	if len(store.saved) != 2 {
		t.Errorf("saved %d events, want 2", len(store.saved))
	}
}

// TestExecuteCreateEvents_EmptySet verifies the precondition violation is
// distinct from "all creations failed".
func TestExecuteCreateEvents_EmptySet(t *testing.T) {
	store := &mockEventStore{}
	for _, dates := range [][]string{nil, {}, {"", ""}} {
		_, err := ExecuteCreateEvents(context.Background(), CreateEventsInput{
			Template: courseTemplate(),
			Dates:    dates,
		}, batchDeps(store))
		if !errors.Is(err, ErrNoDates) {
			t.Errorf("dates %v: got %v, want ErrNoDates", dates, err)
		}
	}
	if len(store.saved) != 0 {
		t.Error("no creation should be attempted for an empty set")
	}
}

// TestExecuteCreateEvents_PartialFailure verifies one date's failure does
// not abort or roll back the others.
func TestExecuteCreateEvents_PartialFailure(t *testing.T) {
	store := &mockEventStore{
		failByDate: map[string]error{"2025-03-11": errors.New("disk full")},
	}
	result, err := ExecuteCreateEvents(context.Background(), CreateEventsInput{
		Template: courseTemplate(),
		Dates:    []string{"2025-03-10", "2025-03-11", "2025-03-12", "not-a-date"},
	}, batchDeps(store))
	if err != nil {
		t.Fatalf("partial failure must not become a hard error: %v", err)
	}

	if result.SuccessCount != 2 {
		t.Errorf("successes = %d, want 2", result.SuccessCount)
	}
	if result.FailCount != 2 {
		t.Errorf("failures = %d, want 2", result.FailCount)
	}
	reasons := map[string]string{}
	for _, f := range result.Failures {
		reasons[f.Date] = f.Reason
	}
	if reasons["2025-03-11"] != "disk full" {
		t.Errorf("store failure not itemized: %v", result.Failures)
	}
	if reasons["not-a-date"] == "" {
		t.Errorf("invalid date not itemized: %v", result.Failures)
	}
}

// TestExecuteCreateEvents_InvalidTemplate verifies template validation is
// reported per date (every date fails the same way).
func TestExecuteCreateEvents_InvalidTemplate(t *testing.T) {
	store := &mockEventStore{}
	tpl := courseTemplate()
	tpl.Type = "rave"
	result, err := ExecuteCreateEvents(context.Background(), CreateEventsInput{
		Template: tpl,
		Dates:    []string{"2025-03-10", "2025-03-11"},
	}, batchDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 0 || result.FailCount != 2 {
		t.Errorf("result = %+v, want 2 failures", result)
	}
	if len(store.saved) != 0 {
		t.Error("invalid template must not reach the store")
	}
}
