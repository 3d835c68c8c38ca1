package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"venue/internal/domain/account"
	memberDomain "venue/internal/domain/member"
)

type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockMemberSignupStore struct {
	members map[string]memberDomain.Member // keyed by email
}

func newMockMemberSignupStore() *mockMemberSignupStore {
	return &mockMemberSignupStore{members: make(map[string]memberDomain.Member)}
}

func (m *mockMemberSignupStore) GetByEmail(_ context.Context, email string) (memberDomain.Member, error) {
	mem, ok := m.members[email]
	if !ok {
		return memberDomain.Member{}, sql.ErrNoRows
	}
	return mem, nil
}

func (m *mockMemberSignupStore) Save(_ context.Context, mem memberDomain.Member) error {
	m.members[mem.Email] = mem
	return nil
}

func TestExecuteCreateAccount_HashesAndRejectsDuplicates(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store}
	ctx := context.Background()

	id, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email: "ed@venue.test", Password: "editor-password-1", Role: account.RoleEditor,
	}, deps)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("no id returned")
	}
	saved := store.accounts["ed@venue.test"]
	if saved.PasswordHash == "" || saved.PasswordHash == "editor-password-1" {
		t.Error("password must be stored hashed")
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email: "ed@venue.test", Password: "editor-password-1", Role: account.RoleEditor,
	}, deps)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate: %v, want ErrEmailAlreadyExists", err)
	}
}

func TestExecuteSeedAdmin_OnlyOnEmptyDatabase(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store}
	ctx := context.Background()

	if err := ExecuteSeedAdmin(ctx, deps, "admin@venue.test", "admin-password-123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(store.accounts))
	}
	if store.accounts["admin@venue.test"].Role != account.RoleAdmin {
		t.Error("seeded account must be admin")
	}

	// A populated database is left alone
	if err := ExecuteSeedAdmin(ctx, deps, "other@venue.test", "admin-password-123"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if _, ok := store.accounts["other@venue.test"]; ok {
		t.Error("seed must not run when accounts exist")
	}
}

func TestExecuteLogin(t *testing.T) {
	store := newMockAccountStore()
	ctx := context.Background()
	_, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email: "m@venue.test", Password: "member-password-1", Role: account.RoleMember,
	}, CreateAccountDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deps := LoginDeps{AccountStore: store}

	result, err := ExecuteLogin(ctx, LoginInput{Email: "m@venue.test", Password: "member-password-1"}, deps)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Role != account.RoleMember || result.AccountID == "" {
		t.Errorf("result = %+v", result)
	}

	_, err = ExecuteLogin(ctx, LoginInput{Email: "m@venue.test", Password: "wrong-password-00"}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v, want ErrInvalidCredentials", err)
	}
	_, err = ExecuteLogin(ctx, LoginInput{Email: "ghost@venue.test", Password: "member-password-1"}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: %v, want ErrInvalidCredentials", err)
	}
}

func TestExecuteSignupMember_LinksAccountAndMember(t *testing.T) {
	accounts := newMockAccountStore()
	members := newMockMemberSignupStore()
	deps := SignupMemberDeps{AccountStore: accounts, MemberStore: members}
	ctx := context.Background()

	memberID, err := ExecuteSignupMember(ctx, SignupMemberInput{
		Name: "Pat", Email: "pat@venue.test", Phone: "021555000", Password: "member-password-1",
	}, deps)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	acct := accounts.accounts["pat@venue.test"]
	if acct.Role != account.RoleMember {
		t.Errorf("role = %q, want member", acct.Role)
	}
	m := members.members["pat@venue.test"]
	if m.ID != memberID || m.AccountID != acct.ID {
		t.Errorf("member not linked: %+v vs account %s", m, acct.ID)
	}

	_, err = ExecuteSignupMember(ctx, SignupMemberInput{
		Name: "Pat Again", Email: "pat@venue.test", Password: "member-password-1",
	}, deps)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate signup: %v, want ErrEmailAlreadyExists", err)
	}
}
