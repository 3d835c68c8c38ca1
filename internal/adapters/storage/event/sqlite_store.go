package event

import (
	"context"
	"time"

	"venue/internal/adapters/storage"
	domain "venue/internal/domain/event"
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

const eventColumns = `id, type, title, description, event_date, start_time, end_time, max_participants, is_active, created_by, created_at`

// Save inserts or updates an event.
// PRE: e is a valid Event (Validate() returns nil)
// POST: event is persisted; created_at is never updated for existing rows
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type=excluded.type, title=excluded.title, description=excluded.description,
		   event_date=excluded.event_date, start_time=excluded.start_time, end_time=excluded.end_time,
		   max_participants=excluded.max_participants, is_active=excluded.is_active`,
		e.ID, e.Type, e.Title, e.Description,
		e.EventDate.Format(domain.DateLayout), e.StartTime, e.EndTime,
		e.MaxParticipants, boolToInt(e.IsActive), e.CreatedBy,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: returns the event, or sql.ErrNoRows if unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE id = ?`, id)
	return scanEvent(row)
}

// ListByDateRange returns events with event_date in [from, to], inclusive.
// PRE: from and to are YYYY-MM-DD strings
// POST: returns events sorted by date then start time
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event
		 WHERE event_date >= ? AND event_date <= ?
		 ORDER BY event_date ASC, start_time ASC, id ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListByDate returns all events on a single day.
// PRE: date is a YYYY-MM-DD string
func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]domain.Event, error) {
	return s.ListByDateRange(ctx, date, date)
}

// Delete removes an event by ID. Its registrations cascade-delete.
// PRE: id is non-empty
// POST: event and its registrations are removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, id)
	return err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var e domain.Event
	var dateStr, createdStr string
	var active int
	err := row.Scan(&e.ID, &e.Type, &e.Title, &e.Description,
		&dateStr, &e.StartTime, &e.EndTime, &e.MaxParticipants,
		&active, &e.CreatedBy, &createdStr)
	if err != nil {
		return e, err
	}
	e.EventDate, _ = time.Parse(domain.DateLayout, dateStr)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	e.IsActive = active != 0
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
