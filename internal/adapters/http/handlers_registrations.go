package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"venue/internal/adapters/http/middleware"
	"venue/internal/application/listutil"
	"venue/internal/application/orchestrators"
	"venue/internal/application/projections"
	accountDomain "venue/internal/domain/account"
	registrationDomain "venue/internal/domain/registration"
)

// registrationJSON is the wire form of a registration record.
type registrationJSON struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	MemberID  string `json:"member_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toRegistrationJSON(reg registrationDomain.Registration) registrationJSON {
	return registrationJSON{
		ID:        reg.ID,
		EventID:   reg.EventID,
		MemberID:  reg.MemberID,
		Status:    reg.Status,
		CreatedAt: reg.CreatedAt.Format(time.RFC3339),
	}
}

// handleEventRegister handles POST /api/events/{id}/register
// Members register interest in an event. Repeat calls return the existing
// registration rather than an error.
func handleEventRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if sess.Role != accountDomain.RoleMember && sess.Role != accountDomain.RoleAdmin && sess.Role != accountDomain.RoleEditor {
		writeError(w, http.StatusForbidden, "members only")
		return
	}

	eventID := r.PathValue("id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}

	reg, created, err := orchestrators.ExecuteRegisterInterest(ctx, orchestrators.RegisterInterestInput{
		EventID:   eventID,
		AccountID: sess.AccountID,
	}, orchestrators.RegisterInterestDeps{
		EventStore:        stores.EventStore,
		RegistrationStore: stores.RegistrationStore,
		MemberStore:       stores.MemberStore,
		EmailSender:       emailSender,
		EmailFrom:         emailFromAddress,
		EmailReply:        emailReplyTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEventNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrEventInactive):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, registrationDomain.ErrCapacityExceeded):
			writeError(w, http.StatusConflict, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"created":      created,
		"registration": toRegistrationJSON(reg),
	})
}

// handleEventRegistrations handles GET /api/events/{id}/registrations
func handleEventRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	eventID := r.PathValue("id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}

	// 404 for unknown events, so an empty list always means "no registrations"
	if _, err := stores.EventStore.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		internalError(w, err)
		return
	}

	rows, err := projections.GetEventRegistrations(ctx, registrationListDeps(), eventID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"registrations": rows})
}

// handleRegistrationStatus handles PUT /api/registrations/{id}
// Staff move a registration to any status in the lifecycle, including
// reversals like cancelled back to confirmed.
func handleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "registration id required")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := stores.RegistrationStore.SetStatus(ctx, id, input.Status); err != nil {
		switch {
		case errors.Is(err, registrationDomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "registration not found")
		default:
			internalError(w, err)
		}
		return
	}

	reg, err := stores.RegistrationStore.GetByID(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationJSON(reg))
}

// handleLatestRegistrations handles GET /api/registrations/latest
// The first page is served from the background poller's snapshot when one
// is wired; deeper pages query the store directly.
func handleLatestRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	pp := listutil.ParsePageParams(r.URL.Query())

	if regPoller != nil && pp.Offset == 0 {
		snapshot := regPoller.Latest()
		if len(snapshot) >= pp.Limit {
			rows, err := projections.EnrichRegistrations(ctx, registrationListDeps(), snapshot[:pp.Limit])
			if err != nil {
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"registrations": rows})
			return
		}
	}

	rows, err := projections.GetLatestRegistrations(ctx, registrationListDeps(), pp.Limit, pp.Offset)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"registrations": rows})
}

func registrationListDeps() projections.RegistrationListDeps {
	return projections.RegistrationListDeps{
		RegistrationStore: stores.RegistrationStore,
		EventStore:        stores.EventStore,
		MemberStore:       stores.MemberStore,
	}
}
