package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readinessChecks maps a dependency name to its ping.
type readinessChecks map[string]func(context.Context) error

func newHTTPHandler(checks readinessChecks) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		code, status := http.StatusOK, "ready"
		failures := map[string]string{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failures[name] = err.Error()
				code, status = http.StatusServiceUnavailable, "not ready"
			}
		}

		body := map[string]interface{}{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		}
		if len(failures) > 0 {
			body["failures"] = failures
		}
		writeStatus(w, code, body)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
