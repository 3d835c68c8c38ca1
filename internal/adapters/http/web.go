package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"venue/internal/adapters/email"
	"venue/internal/adapters/http/middleware"
	"venue/internal/adapters/http/perf"
	accountStore "venue/internal/adapters/storage/account"
	eventStore "venue/internal/adapters/storage/event"
	memberStore "venue/internal/adapters/storage/member"
	registrationStore "venue/internal/adapters/storage/registration"
	"venue/internal/application/orchestrators"
	domainEvent "venue/internal/domain/event"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	MemberStore       memberStore.Store
	EventStore        eventStore.Store
	RegistrationStore registrationStore.Store
}

// loadCSRFKey reads the CSRF secret from VENUE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("VENUE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("VENUE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("VENUE_ENV") == "production" {
		log.Fatal("VENUE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set VENUE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Event types allowed by the staff event endpoints (set by NewMux)
var eventTypes domainEvent.TypeSet

// Registration poller feeding the staff latest-registrations endpoint
// (set by SetRegistrationPoller; optional).
var regPoller *orchestrators.RegistrationPoller

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetRegistrationPoller wires the background poller into the staff
// registration feed. When unset the feed falls back to a direct query.
func SetRegistrationPoller(p *orchestrators.RegistrationPoller) {
	regPoller = p
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector, types domainEvent.TypeSet) http.Handler {
	stores = s
	perfCollector = collector
	eventTypes = types
	if eventTypes == nil {
		eventTypes = domainEvent.DefaultTypes()
	}
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("VENUE_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
