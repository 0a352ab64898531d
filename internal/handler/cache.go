package handler

import (
	"log/slog"
	"net/http"
	"time"

	"boothorders/internal/cache"
	"boothorders/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

func ClearCacheHandler(c *cache.TTL[any]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		c.Clear()
		slog.InfoContext(r.Context(), "cache cleared manually")
		writeJSON(w, http.StatusOK, messageResponse{Message: "Cache cleared successfully"})
	}
}

type healthResponse struct {
	Status                string    `json:"status"`
	Timestamp             time.Time `json:"timestamp"`
	GoogleSheetsConnected bool      `json:"google_sheets_connected"`
	CacheSize             int       `json:"cache_size"`
}

func HealthHandler(repo *service.OrderRepository, c *cache.TTL[any]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:                "healthy",
			Timestamp:             time.Now(),
			GoogleSheetsConnected: repo.SourceConnected(),
			CacheSize:             c.Len(),
		})
	}
}

func WorksheetsHandler(repo *service.OrderRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, repo.Worksheets(r.Context()))
	}
}
