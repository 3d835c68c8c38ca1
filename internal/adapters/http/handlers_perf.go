package web

import (
	"net/http"
	"strconv"
	"time"

	"venue/internal/adapters/http/middleware"
)

// handlePerfStats handles GET /api/perf
// Admin-only aggregated request and query timings from the ring buffer.
func handlePerfStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	if perfCollector == nil {
		writeError(w, http.StatusServiceUnavailable, "perf collection disabled")
		return
	}

	// ?window=MINUTES limits the aggregation window, default 60
	windowMin := 60
	if v := r.URL.Query().Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			windowMin = n
		}
	}
	since := timeNow().Add(-time.Duration(windowMin) * time.Minute)

	snap := perfCollector.Snapshot(since, 10)
	writeJSON(w, http.StatusOK, snap)
}
