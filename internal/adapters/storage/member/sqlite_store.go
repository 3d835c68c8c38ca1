package member

import (
	"context"

	"venue/internal/adapters/storage"
	domain "venue/internal/domain/member"
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

const memberColumns = `id, account_id, name, email, phone, status`

// Save inserts or updates a member.
// PRE: m is a valid Member (Validate() returns nil)
// POST: member is persisted; email uniqueness enforced by the schema
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	var accountID any
	if m.AccountID != "" {
		accountID = m.AccountID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO member (`+memberColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   account_id=excluded.account_id, name=excluded.name,
		   email=excluded.email, phone=excluded.phone, status=excluded.status`,
		m.ID, accountID, m.Name, m.Email, m.Phone, m.Status,
	)
	return err
}

// GetByID retrieves a member by ID.
// PRE: id is non-empty
// POST: returns the member, or sql.ErrNoRows if unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return s.getWhere(ctx, `id = ?`, id)
}

// GetByEmail retrieves a member by email.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	return s.getWhere(ctx, `email = ?`, email)
}

// GetByAccountID retrieves the member linked to a login account.
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Member, error) {
	return s.getWhere(ctx, `account_id = ?`, accountID)
}

// Delete removes a member by ID.
// PRE: id is non-empty; the member has no registrations (FK restricts)
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM member WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) getWhere(ctx context.Context, cond string, arg any) (domain.Member, error) {
	var m domain.Member
	var accountID *string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM member WHERE `+cond, arg,
	).Scan(&m.ID, &accountID, &m.Name, &m.Email, &m.Phone, &m.Status)
	if err != nil {
		return m, err
	}
	if accountID != nil {
		m.AccountID = *accountID
	}
	return m, nil
}
