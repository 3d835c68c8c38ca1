package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"venue/internal/application/listutil"
	"venue/internal/application/orchestrators"
	"venue/internal/application/projections"
	"venue/internal/domain/calendar"
	eventDomain "venue/internal/domain/event"
)

// eventJSON is the wire form of a full event record (staff views).
type eventJSON struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	MaxParticipants int    `json:"max_participants"`
	IsActive        bool   `json:"is_active"`
	CreatedBy       string `json:"created_by"`
	CreatedAt       string `json:"created_at"`
}

func toEventJSON(e eventDomain.Event) eventJSON {
	return eventJSON{
		ID:              e.ID,
		Type:            e.Type,
		Title:           e.Title,
		Description:     e.Description,
		EventDate:       e.EventDate.Format(eventDomain.DateLayout),
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		MaxParticipants: e.MaxParticipants,
		IsActive:        e.IsActive,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}

// handleEvents handles GET (calendar/day views) and POST (batch create) for /api/events
func handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}

	if r.Method == "GET" {
		deps := projections.MonthViewDeps{EventStore: stores.EventStore}

		// ?date=YYYY-MM-DD returns a single day's events
		if date := r.URL.Query().Get("date"); date != "" {
			if _, err := time.Parse(eventDomain.DateLayout, date); err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			events, err := projections.GetDayEvents(ctx, deps, date, projections.AudienceStaff)
			if err != nil {
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"date": date, "events": events})
			return
		}

		now := timeNow()
		year, month := listutil.ParseMonthParams(r.URL.Query(), now.Year(), int(now.Month()))
		view, err := projections.GetMonthView(ctx, deps, calendar.Cursor{Year: year, Month: month}, projections.AudienceStaff)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	if r.Method == "POST" {
		var input struct {
			Type            string   `json:"type"`
			Title           string   `json:"title"`
			Description     string   `json:"description"`
			StartTime       string   `json:"start_time"`
			EndTime         string   `json:"end_time"`
			MaxParticipants int      `json:"max_participants"`
			IsActive        bool     `json:"is_active"`
			Dates           []string `json:"dates"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		result, err := orchestrators.ExecuteCreateEvents(ctx, orchestrators.CreateEventsInput{
			Template: orchestrators.EventTemplate{
				Type:            input.Type,
				Title:           input.Title,
				Description:     input.Description,
				StartTime:       input.StartTime,
				EndTime:         input.EndTime,
				MaxParticipants: input.MaxParticipants,
				IsActive:        input.IsActive,
				CreatedBy:       sess.AccountID,
			},
			Dates: input.Dates,
		}, orchestrators.CreateEventsDeps{
			EventStore: stores.EventStore,
			Types:      eventTypes,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrNoDates) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			internalError(w, err)
			return
		}

		status := http.StatusCreated
		if result.SuccessCount == 0 {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{
			"success_count": result.SuccessCount,
			"fail_count":    result.FailCount,
			"created_ids":   result.CreatedIDs,
			"failures":      batchFailuresJSON(result.Failures),
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func batchFailuresJSON(failures []orchestrators.BatchFailure) []map[string]string {
	out := make([]map[string]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, map[string]string{"date": f.Date, "reason": f.Reason})
	}
	return out
}

// handleEventByID handles GET/PUT/DELETE for /api/events/{id}
func handleEventByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	if r.Method == "GET" {
		detail, err := projections.GetEventDetail(ctx, projections.EventDetailDeps{
			EventStore:        stores.EventStore,
			RegistrationStore: stores.RegistrationStore,
		}, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "event not found")
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"event":              toEventJSON(detail.Event),
			"registration_count": detail.RegistrationCount,
			"spots_remaining":    detail.SpotsRemaining,
		})
		return
	}

	if r.Method == "PUT" {
		existing, err := stores.EventStore.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "event not found")
				return
			}
			internalError(w, err)
			return
		}

		// Omitted fields keep their stored value; only fields present in
		// the body are applied.
		var patch struct {
			Type            *string `json:"type"`
			Title           *string `json:"title"`
			Description     *string `json:"description"`
			EventDate       *string `json:"event_date"`
			StartTime       *string `json:"start_time"`
			EndTime         *string `json:"end_time"`
			MaxParticipants *int    `json:"max_participants"`
			IsActive        *bool   `json:"is_active"`
		}
		if err := strictDecode(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		updated := existing
		if patch.Type != nil {
			updated.Type = *patch.Type
		}
		if patch.Title != nil {
			updated.Title = *patch.Title
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.EventDate != nil {
			date, err := time.Parse(eventDomain.DateLayout, *patch.EventDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "event date must be YYYY-MM-DD")
				return
			}
			updated.EventDate = date
		}
		if patch.StartTime != nil {
			updated.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			updated.EndTime = *patch.EndTime
		}
		if patch.MaxParticipants != nil {
			updated.MaxParticipants = *patch.MaxParticipants
		}
		if patch.IsActive != nil {
			updated.IsActive = *patch.IsActive
		}

		if err := updated.Validate(eventTypes); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := stores.EventStore.Save(ctx, updated); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventJSON(updated))
		return
	}

	if r.Method == "DELETE" {
		if _, err := stores.EventStore.GetByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "event not found")
				return
			}
			internalError(w, err)
			return
		}
		// Registrations for the event are removed with it.
		if err := stores.EventStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
