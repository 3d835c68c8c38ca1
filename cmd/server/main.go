package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "venue/internal/adapters/email"
	web "venue/internal/adapters/http"
	"venue/internal/adapters/http/perf"
	"venue/internal/adapters/storage"
	accountStore "venue/internal/adapters/storage/account"
	eventStore "venue/internal/adapters/storage/event"
	memberStore "venue/internal/adapters/storage/member"
	registrationStore "venue/internal/adapters/storage/registration"
	"venue/internal/application/orchestrators"
	eventDomain "venue/internal/domain/event"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("VENUE_DB_PATH", "venue.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      acctStore,
		MemberStore:       memberStore.NewSQLiteStore(timedDB),
		EventStore:        eventStore.NewSQLiteStore(timedDB),
		RegistrationStore: registrationStore.NewSQLiteStore(timedDB),
	}

	// Event type set: configurable, falls back to the built-in types
	eventTypes, err := eventDomain.ParseTypes(os.Getenv("VENUE_EVENT_TYPES"))
	if err != nil {
		log.Fatalf("invalid VENUE_EVENT_TYPES: %v", err)
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("VENUE_ADMIN_EMAIL", "admin@riversidevenue.example")
	adminPassword := envOrDefault("VENUE_ADMIN_PASSWORD", "Kiln loaded tuesday")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed demo events for development only
	if os.Getenv("VENUE_ENV") != "production" {
		adminAcct, err := acctStore.GetByEmail(context.Background(), adminEmail)
		if err != nil {
			log.Fatalf("failed to get admin account for seeding: %v", err)
		}
		seedEventDeps := orchestrators.SeedEventsDeps{EventStore: stores.EventStore}
		if err := orchestrators.ExecuteSeedDemoEvents(context.Background(), seedEventDeps, adminAcct.ID); err != nil {
			log.Fatalf("failed to seed demo events: %v", err)
		}
		log.Println("Demo events loaded (dev mode)")
	}

	// Configure email sender
	resendKey := os.Getenv("VENUE_RESEND_KEY")
	emailFrom := envOrDefault("VENUE_RESEND_FROM", "Riverside Venue <noreply@riversidevenue.example>")
	emailReply := envOrDefault("VENUE_REPLY_TO", "bookings@riversidevenue.example")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("VENUE_ENV") == "production" {
			log.Println("WARNING: VENUE_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set VENUE_RESEND_KEY for real delivery)")
		}
	}

	// Start the registration poller feeding the staff dashboard
	poller := orchestrators.NewRegistrationPoller(stores.RegistrationStore, orchestrators.DefaultPollInterval, 50)
	poller.Start()
	defer poller.Stop()
	web.SetRegistrationPoller(poller)

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector, eventTypes)

	// Start server
	addr := envOrDefault("VENUE_ADDR", ":8080")
	log.Printf("Venue %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("VENUE_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
