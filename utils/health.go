package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatwheel/games/roulette"
)

// HealthDeps are the pieces the health server reports on.
type HealthDeps struct {
	ServiceName string
	Status      func() string
	Ping        func(ctx context.Context) error
	History     roulette.History
	Gatherer    prometheus.Gatherer
}

type historyEntry struct {
	Slot  string `json:"slot"`
	Color string `json:"color"`
}

// NewHealthRouter serves /, /health, /metrics and /history.
func NewHealthRouter(deps HealthDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": deps.ServiceName,
			"status":  deps.Status(),
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		body := map[string]string{"bot": deps.Status(), "store": "ok"}
		status := http.StatusOK
		if deps.Ping != nil {
			if err := deps.Ping(ctx); err != nil {
				body["store"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, status, body)
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		n := HistoryDisplaySize
		if v := r.URL.Query().Get("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > HistoryCap {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be between 1 and 1000"})
				return
			}
			n = parsed
		}

		slots, err := deps.History.Recent(r.Context(), n)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history unavailable"})
			return
		}

		entries := make([]historyEntry, 0, len(slots))
		for _, s := range slots {
			label := strconv.Itoa(int(s))
			if s == roulette.DoubleZero {
				label = "00"
			}
			entries = append(entries, historyEntry{Slot: label, Color: string(s.Color())})
		}
		writeJSON(w, http.StatusOK, entries)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
