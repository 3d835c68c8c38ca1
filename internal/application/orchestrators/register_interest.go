package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"venue/internal/adapters/email"
	eventDomain "venue/internal/domain/event"
	memberDomain "venue/internal/domain/member"
	"venue/internal/domain/registration"
)

// EventStoreForRegister defines the store interface needed to resolve the event.
type EventStoreForRegister interface {
	GetByID(ctx context.Context, id string) (eventDomain.Event, error)
}

// RegistrationStoreForRegister defines the atomic registration operation.
type RegistrationStoreForRegister interface {
	RegisterInterest(ctx context.Context, reg registration.Registration, maxParticipants int) (registration.Registration, bool, error)
}

// MemberStoreForRegister resolves the member for the authenticated account.
type MemberStoreForRegister interface {
	GetByAccountID(ctx context.Context, accountID string) (memberDomain.Member, error)
}

// RegisterInterestInput carries input for the orchestrator.
type RegisterInterestInput struct {
	EventID   string
	AccountID string // authenticated member account, asserted by the caller
}

// RegisterInterestDeps holds dependencies for RegisterInterest.
type RegisterInterestDeps struct {
	EventStore        EventStoreForRegister
	RegistrationStore RegistrationStoreForRegister
	MemberStore       MemberStoreForRegister

	// EmailSender is optional; when set, a confirmation is sent for newly
	// created registrations only. Failures are logged, never surfaced.
	EmailSender email.Sender
	EmailFrom   string
	EmailReply  string
}

// Business outcome errors surfaced to handlers.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrMemberNotFound = errors.New("no member record for this account")
	ErrEventInactive  = errors.New("this event is not open for registration")
)

// ExecuteRegisterInterest records a member's interest in an event.
// Idempotent: a repeat call returns the existing registration unchanged.
// PRE: input.AccountID belongs to an authenticated member session
// POST: exactly one registration exists for (event, member); Created
// reports whether this call inserted it
func ExecuteRegisterInterest(ctx context.Context, input RegisterInterestInput, deps RegisterInterestDeps) (registration.Registration, bool, error) {
	m, err := deps.MemberStore.GetByAccountID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return registration.Registration{}, false, ErrMemberNotFound
		}
		return registration.Registration{}, false, err
	}

	e, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return registration.Registration{}, false, ErrEventNotFound
		}
		return registration.Registration{}, false, err
	}
	if !e.IsActive {
		return registration.Registration{}, false, ErrEventInactive
	}

	reg := registration.Registration{
		ID:        uuid.New().String(),
		EventID:   e.ID,
		MemberID:  m.ID,
		Status:    registration.StatusInterested,
		CreatedAt: time.Now(),
	}
	if err := reg.Validate(); err != nil {
		return registration.Registration{}, false, err
	}

	result, created, err := deps.RegistrationStore.RegisterInterest(ctx, reg, e.MaxParticipants)
	if err != nil {
		return registration.Registration{}, false, err
	}

	if created {
		slog.Info("registration_created", "event_id", e.ID, "member_id", m.ID)
		sendConfirmation(ctx, deps, m, e)
	} else {
		slog.Info("registration_repeat", "event_id", e.ID, "member_id", m.ID, "registration_id", result.ID)
	}
	return result, created, nil
}

// sendConfirmation emails the member about their new registration.
// Best-effort: a delivery failure must never fail the registration.
func sendConfirmation(ctx context.Context, deps RegisterInterestDeps, m memberDomain.Member, e eventDomain.Event) {
	if deps.EmailSender == nil {
		return
	}
	when := e.EventDate.Format("Monday 2 January 2006")
	if e.StartTime != "" {
		when += " at " + e.StartTime
	}
	// Name and title are user-supplied and land in an HTML body.
	req := email.SendRequest{
		To:      []string{m.Email},
		From:    deps.EmailFrom,
		ReplyTo: deps.EmailReply,
		Subject: fmt.Sprintf("You're registered: %s", e.Title),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>We've recorded your interest in <strong>%s</strong> on %s. We'll be in touch to confirm your place.</p>",
			html.EscapeString(m.Name), html.EscapeString(e.Title), when),
	}
	if _, err := deps.EmailSender.Send(ctx, req); err != nil {
		slog.Warn("registration_email_failed", "event_id", e.ID, "member_id", m.ID, "error", err.Error())
	}
}
