package browser_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "venue/internal/adapters/http"
	"venue/internal/adapters/storage"
	accountStore "venue/internal/adapters/storage/account"
	eventStore "venue/internal/adapters/storage/event"
	memberStore "venue/internal/adapters/storage/member"
	registrationStore "venue/internal/adapters/storage/registration"
	"venue/internal/application/orchestrators"
	accountDomain "venue/internal/domain/account"
	eventDomain "venue/internal/domain/event"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!more"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Stores  *web.Stores
	AdminID string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:      acctStore,
		MemberStore:       memberStore.NewSQLiteStore(db),
		EventStore:        eventStore.NewSQLiteStore(db),
		RegistrationStore: registrationStore.NewSQLiteStore(db),
	}

	ctx := context.Background()
	adminID, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     accountDomain.RoleAdmin,
	}, orchestrators.CreateAccountDeps{AccountStore: acctStore})
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mux := web.NewMux(tmpDir, stores, nil, eventDomain.DefaultTypes())
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/api/public/events")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Stores:  stores,
		AdminID: adminID,
	}

	t.Cleanup(func() {
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newAPIContext creates an API request context that carries cookies across
// calls, so a login persists for subsequent requests.
func (a *testApp) newAPIContext(t *testing.T) playwright.APIRequestContext {
	t.Helper()
	rc, err := a.PW.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(a.BaseURL),
	})
	if err != nil {
		t.Fatalf("failed to create API context: %v", err)
	}
	t.Cleanup(func() { rc.Dispose() })
	return rc
}

// login authenticates the context as the given user.
func login(t *testing.T, rc playwright.APIRequestContext, email, password string) {
	t.Helper()
	resp, err := rc.Post("/api/login", playwright.APIRequestContextPostOptions{
		Data: map[string]string{"Email": email, "Password": password},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("login failed: %d %s", resp.Status(), body)
	}
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, resp playwright.APIResponse) map[string]any {
	t.Helper()
	body, err := resp.Body()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %q: %v", string(body), err)
	}
	return out
}
