package account

import (
	"context"
	"time"

	"venue/internal/adapters/storage"
	domain "venue/internal/domain/account"
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

// Save inserts or updates an account.
// PRE: a is a valid Account (Validate() returns nil)
// POST: account is persisted
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash, role=excluded.role`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves an account by ID.
// PRE: id is non-empty
// POST: returns the account, or sql.ErrNoRows if unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getWhere(ctx, `id = ?`, id)
}

// GetByEmail retrieves an account by email.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getWhere(ctx, `email = ?`, email)
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) getWhere(ctx context.Context, cond string, arg any) (domain.Account, error) {
	var a domain.Account
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at FROM account WHERE `+cond, arg,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdStr)
	if err != nil {
		return a, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return a, nil
}
