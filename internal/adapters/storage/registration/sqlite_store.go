package registration

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"venue/internal/adapters/storage"
	domain "venue/internal/domain/registration"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const regColumns = `id, event_id, member_id, status, created_at`

// RegisterInterest performs the idempotent, capacity-checked insert.
//
// The capacity check and the insert are one guarded INSERT..SELECT, so two
// concurrent registrants for the last slot cannot both get in: SQLite
// serializes writers and the guard re-counts inside the same statement.
// The unique (event_id, member_id) index backstops concurrent duplicate
// attempts; on a constraint hit the existing row is read back and returned,
// so the caller cannot tell who won the race — both observe the same row.
//
// PRE: reg passes Validate(); maxParticipants is the owning event's cap (0 = unlimited)
// POST: exactly one registration exists for (event_id, member_id); created
// reports whether this call inserted it
func (s *SQLiteStore) RegisterInterest(ctx context.Context, reg domain.Registration, maxParticipants int) (domain.Registration, bool, error) {
	existing, err := s.GetByEventAndMember(ctx, reg.EventID, reg.MemberID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Registration{}, false, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO registration (`+regColumns+`)
		 SELECT ?, ?, ?, ?, ?
		 WHERE ? <= 0
		    OR (SELECT COUNT(*) FROM registration WHERE event_id = ? AND status != ?) < ?`,
		reg.ID, reg.EventID, reg.MemberID, reg.Status,
		reg.CreatedAt.UTC().Format(time.RFC3339),
		maxParticipants, reg.EventID, domain.StatusCancelled, maxParticipants,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a duplicate race; the winner's row is the answer.
			existing, rerr := s.GetByEventAndMember(ctx, reg.EventID, reg.MemberID)
			if rerr != nil {
				return domain.Registration{}, false, rerr
			}
			return existing, false, nil
		}
		return domain.Registration{}, false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.Registration{}, false, err
	}
	if n == 0 {
		return domain.Registration{}, false, domain.ErrCapacityExceeded
	}
	return reg, true, nil
}

// GetByID retrieves a registration by ID.
// PRE: id is non-empty
// POST: returns the registration, or sql.ErrNoRows if unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+regColumns+` FROM registration WHERE id = ?`, id)
	return scanRegistration(row)
}

// GetByEventAndMember retrieves the unique registration for a pair.
// PRE: eventID and memberID are non-empty
// POST: returns the registration, or sql.ErrNoRows if none exists
func (s *SQLiteStore) GetByEventAndMember(ctx context.Context, eventID, memberID string) (domain.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+regColumns+` FROM registration WHERE event_id = ? AND member_id = ?`,
		eventID, memberID)
	return scanRegistration(row)
}

// SetStatus overwrites a registration's status. No capacity re-check: a
// slot once held stays held, and cancelling only frees capacity going
// forward.
// PRE: status is in the closed status set
// POST: status updated, or sql.ErrNoRows if the id is unknown
func (s *SQLiteStore) SetStatus(ctx context.Context, id, status string) error {
	if !domain.IsValidStatus(status) {
		return domain.ErrInvalidStatus
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE registration SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByEvent returns all registrations for an event, newest first.
// PRE: eventID is non-empty
// POST: sorted by created_at descending, id descending for stable ties
func (s *SQLiteStore) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+regColumns+` FROM registration
		 WHERE event_id = ?
		 ORDER BY created_at DESC, id DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// ListLatest returns a page of registrations across all events, newest first.
// PRE: limit > 0, offset >= 0
// POST: sorted by created_at descending, id descending for stable ties
func (s *SQLiteStore) ListLatest(ctx context.Context, limit, offset int) ([]domain.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+regColumns+` FROM registration
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// CountActiveByEvent counts non-cancelled registrations for an event.
// PRE: eventID is non-empty
func (s *SQLiteStore) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registration WHERE event_id = ? AND status != ?`,
		eventID, domain.StatusCancelled).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (domain.Registration, error) {
	var r domain.Registration
	var createdStr string
	if err := row.Scan(&r.ID, &r.EventID, &r.MemberID, &r.Status, &createdStr); err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return r, nil
}

func collectRegistrations(rows *sql.Rows) ([]domain.Registration, error) {
	var regs []domain.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// isUniqueViolation reports whether err is the unique-index backstop firing.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
