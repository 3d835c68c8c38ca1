package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"venue/internal/domain/event"
)

// EventStoreForCreate defines the store interface needed by batch creation.
type EventStoreForCreate interface {
	Save(ctx context.Context, e event.Event) error
}

// EventTemplate carries the fields shared by every event in a batch.
type EventTemplate struct {
	Type            string
	Title           string
	Description     string
	StartTime       string
	EndTime         string
	MaxParticipants int
	IsActive        bool
	CreatedBy       string // account ID of the staff creator
}

// CreateEventsInput carries input for the orchestrator.
type CreateEventsInput struct {
	Template EventTemplate
	Dates    []string // YYYY-MM-DD; duplicates collapsed, order irrelevant
}

// CreateEventsDeps holds dependencies for CreateEvents.
type CreateEventsDeps struct {
	EventStore EventStoreForCreate
	Types      event.TypeSet
}

// BatchFailure names one date that could not be created and why.
type BatchFailure struct {
	Date   string
	Reason string
}

// BatchResult reports the outcome of a batch creation. It is always
// returned in full; one date's failure never aborts the others.
type BatchResult struct {
	SuccessCount int
	FailCount    int
	CreatedIDs   []string
	Failures     []BatchFailure
}

// ErrNoDates is the precondition violation for an empty date set, distinct
// from "all creations failed".
var ErrNoDates = errors.New("at least one date is required")

// ExecuteCreateEvents expands a template across a set of calendar dates,
// creating one independent event per distinct date.
// PRE: input.Dates is non-empty after trimming
// POST: one event row exists per successfully created date; failures are
// itemized per date in the result, never thrown
func ExecuteCreateEvents(ctx context.Context, input CreateEventsInput, deps CreateEventsDeps) (BatchResult, error) {
	dates := dedupeDates(input.Dates)
	if len(dates) == 0 {
		return BatchResult{}, ErrNoDates
	}

	var result BatchResult
	for _, dateStr := range dates {
		id, err := createOne(ctx, input.Template, dateStr, deps)
		if err != nil {
			result.FailCount++
			result.Failures = append(result.Failures, BatchFailure{Date: dateStr, Reason: err.Error()})
			slog.Warn("event_batch_date_failed", "date", dateStr, "error", err.Error())
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, id)
	}

	slog.Info("event_batch_created",
		"requested", len(dates),
		"created", result.SuccessCount,
		"failed", result.FailCount,
	)
	return result, nil
}

func createOne(ctx context.Context, tpl EventTemplate, dateStr string, deps CreateEventsDeps) (string, error) {
	date, err := time.Parse(event.DateLayout, dateStr)
	if err != nil {
		return "", errors.New("date must be YYYY-MM-DD")
	}

	e := event.Event{
		ID:              uuid.New().String(),
		Type:            tpl.Type,
		Title:           tpl.Title,
		Description:     tpl.Description,
		EventDate:       date,
		StartTime:       tpl.StartTime,
		EndTime:         tpl.EndTime,
		MaxParticipants: tpl.MaxParticipants,
		IsActive:        tpl.IsActive,
		CreatedBy:       tpl.CreatedBy,
		CreatedAt:       time.Now(),
	}
	if err := e.Validate(deps.Types); err != nil {
		return "", err
	}
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// dedupeDates collapses duplicate input dates and drops blanks. Sorted for
// deterministic per-date results.
func dedupeDates(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	var out []string
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
