package web

import "net/http"

// registerRoutes attaches all application routes to the mux.
// Role checks live in the handlers; the Auth middleware only resolves the
// session cookie into the request context.
func registerRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/signup", handleSignup)

	// Staff event management
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/{id}", handleEventByID)
	mux.HandleFunc("/api/events/{id}/registrations", handleEventRegistrations)

	// Member registration
	mux.HandleFunc("/api/events/{id}/register", handleEventRegister)

	// Staff registration management
	mux.HandleFunc("/api/registrations/latest", handleLatestRegistrations)
	mux.HandleFunc("/api/registrations/{id}", handleRegistrationStatus)

	// Public calendar
	mux.HandleFunc("/api/public/events", handlePublicEvents)
	mux.HandleFunc("/api/public/events/{id}", handlePublicEventByID)

	// Perf dashboard (admin)
	mux.HandleFunc("/api/perf", handlePerfStats)
}
