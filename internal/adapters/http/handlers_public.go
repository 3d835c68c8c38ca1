package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"venue/internal/application/listutil"
	"venue/internal/application/projections"
	"venue/internal/domain/calendar"
	eventDomain "venue/internal/domain/event"
)

// handlePublicEvents handles GET /api/public/events
// No authentication. Only active events are visible and staff-only fields
// are stripped.
func handlePublicEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.MonthViewDeps{EventStore: stores.EventStore}

	if date := r.URL.Query().Get("date"); date != "" {
		if _, err := time.Parse(eventDomain.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		events, err := projections.GetDayEvents(ctx, deps, date, projections.AudiencePublic)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "events": events})
		return
	}

	now := timeNow()
	year, month := listutil.ParseMonthParams(r.URL.Query(), now.Year(), int(now.Month()))
	view, err := projections.GetMonthView(ctx, deps, calendar.Cursor{Year: year, Month: month}, projections.AudiencePublic)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handlePublicEventByID handles GET /api/public/events/{id}
// The markdown description is rendered to HTML here; public clients never
// see raw markdown.
func handlePublicEventByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}

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
	// Inactive events are not published
	if !detail.Event.IsActive {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	e := detail.Event
	writeJSON(w, http.StatusOK, map[string]any{
		"id":               e.ID,
		"type":             e.Type,
		"title":            e.Title,
		"description_html": renderMarkdown(e.Description),
		"event_date":       e.EventDate.Format(eventDomain.DateLayout),
		"start_time":       e.StartTime,
		"end_time":         e.EndTime,
		"max_participants": e.MaxParticipants,
		"spots_remaining":  detail.SpotsRemaining,
	})
}
