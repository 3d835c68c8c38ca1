package middleware

import (
	"sync"
	"testing"
	"time"

	domainAccount "venue/internal/domain/account"
)

func TestSessionStore_CreateGetDelete(t *testing.T) {
	ss := NewSessionStore()

	token, err := ss.Create("acct-1", "staff@venue.test", domainAccount.RoleEditor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	sess, ok := ss.Get(token)
	if !ok {
		t.Fatal("session not found after create")
	}
	if sess.AccountID != "acct-1" || sess.Role != domainAccount.RoleEditor {
		t.Errorf("session = %+v", sess)
	}

	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("session still present after delete")
	}
}

func TestSessionStore_ExpiredSessionRemoved(t *testing.T) {
	ss := NewSessionStore()
	ss.sessions["stale"] = Session{
		AccountID: "acct-1",
		Email:     "staff@venue.test",
		Role:      domainAccount.RoleEditor,
		CreatedAt: time.Now().Add(-25 * time.Hour),
	}

	if _, ok := ss.Get("stale"); ok {
		t.Error("expired session returned as valid")
	}
	ss.mu.RLock()
	_, present := ss.sessions["stale"]
	ss.mu.RUnlock()
	if present {
		t.Error("expired session not removed from store")
	}
}

// Concurrent lookups of the same expired token exercise the removal path
// from many goroutines at once.
func TestSessionStore_ConcurrentExpiredGets(t *testing.T) {
	ss := NewSessionStore()
	ss.sessions["stale"] = Session{
		AccountID: "acct-1",
		CreatedAt: time.Now().Add(-25 * time.Hour),
	}
	if _, err := ss.Create("acct-2", "live@venue.test", domainAccount.RoleMember); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, ok := ss.Get("stale"); ok {
					t.Error("expired session returned as valid")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRateLimiter_AllowAndStop(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Error("first request denied")
	}
	if !rl.Allow("10.0.0.1") {
		t.Error("second request denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request allowed over a limit of 2")
	}
	// Other IPs have their own bucket.
	if !rl.Allow("10.0.0.2") {
		t.Error("separate ip denied")
	}

	rl.Stop()
	rl.Stop() // repeat calls must not panic
}
