package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"boothorders/internal/service"
)

const forceRefreshParam = "force_refresh"

func ListOrdersHandler(agg *service.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		orders := agg.Orders(r.Context(), forceRefresh(r))
		writeJSON(w, http.StatusOK, orders)
	}
}

func ExhibitorOrdersHandler(agg *service.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := pathParam(r, "name")
		if name == "" {
			http.Error(w, "exhibitor name required", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, agg.Exhibitor(r.Context(), name, forceRefresh(r)))
	}
}

func BoothOrdersHandler(agg *service.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		booth := pathParam(r, "booth")
		if booth == "" {
			http.Error(w, "booth number required", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, agg.Booth(r.Context(), booth, forceRefresh(r)))
	}
}

func ListExhibitorsHandler(agg *service.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, http.StatusOK, agg.Exhibitors(r.Context(), forceRefresh(r)))
	}
}

func StatsHandler(agg *service.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, http.StatusOK, agg.Stats(r.Context(), forceRefresh(r)))
	}
}

func forceRefresh(r *http.Request) bool {
	return strings.ToLower(r.URL.Query().Get(forceRefreshParam)) == "true"
}

// pathParam returns the decoded chi URL parameter. chi matches on RawPath
// when it is set, so only then is the value still escaped.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
