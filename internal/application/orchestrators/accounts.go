package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"venue/internal/domain/account"
	memberDomain "venue/internal/domain/member"
)

// AccountStoreForCreate defines the store interface needed by account creation.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// MemberStoreForSignup persists the member record created on signup.
type MemberStoreForSignup interface {
	GetByEmail(ctx context.Context, email string) (memberDomain.Member, error)
	Save(ctx context.Context, m memberDomain.Member) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}
	if input.Role == "" {
		return "", errors.New("role cannot be empty")
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", input.Role)
	return acct.ID, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, adminEmail, adminPassword string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     account.RoleAdmin,
	}, deps)
	return err
}

// ErrInvalidCredentials is returned for any login failure. The cause is
// deliberately not distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginInput carries credentials for login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the authenticated identity.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForCreate
}

// ExecuteLogin verifies credentials against the stored bcrypt hash.
// PRE: none
// POST: returns identity on success; ErrInvalidCredentials otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return LoginResult{}, ErrInvalidCredentials
	}
	slog.Info("auth_event", "event", "login_succeeded", "email", acct.Email, "role", acct.Role)
	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}

// SignupMemberInput carries input for member self-signup.
type SignupMemberInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// SignupMemberDeps holds dependencies for member signup.
type SignupMemberDeps struct {
	AccountStore AccountStoreForCreate
	MemberStore  MemberStoreForSignup
}

// ExecuteSignupMember creates a member-role account plus the member record
// that event registrations reference.
// PRE: Valid name/email, password >= 12 chars
// POST: account and member rows exist, linked by account_id
func ExecuteSignupMember(ctx context.Context, input SignupMemberInput, deps SignupMemberDeps) (string, error) {
	if _, err := deps.MemberStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     account.RoleMember,
	}, CreateAccountDeps{AccountStore: deps.AccountStore})
	if err != nil {
		return "", err
	}

	m := memberDomain.Member{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    memberDomain.StatusActive,
	}
	if err := m.Validate(); err != nil {
		return "", err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return "", err
	}

	slog.Info("member_signed_up", "member_id", m.ID)
	return m.ID, nil
}
