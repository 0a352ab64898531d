package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boothorders/internal/cache"
	"boothorders/internal/config"
	"boothorders/internal/database"
	"boothorders/internal/handler"
	"boothorders/internal/service"
	"boothorders/internal/sheets"
	"boothorders/internal/telemetry"
	"boothorders/internal/worker"
)

func main() {
	cfg := config.New()
	telemetry.InitLogger(os.Stderr, cfg.LogLevel)

	c := cache.New[any](cfg.CacheTTL)

	source, db := newSource(cfg)
	if db != nil {
		defer database.CloseDB(db)
	}

	// Services
	repo := service.NewOrderRepository(c, source, cfg.SheetID, cfg.Worksheet, cfg.FetchTimeout)
	agg := service.NewAggregator(repo, c)

	r := handler.NewRouter(handler.Deps{
		Aggregator: agg,
		Repo:       repo,
		Cache:      c,
		StaticDir:  cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 10*time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	if cfg.WarmInterval > 0 {
		go worker.NewCacheWarmer(repo, cfg.WarmInterval).Start(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server",
		"addr", cfg.RunAddress,
		"sheet_id", cfg.SheetID,
		"worksheet", cfg.Worksheet,
		"cache_ttl", c.TTL(),
		"source_connected", repo.SourceConnected(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop warmer
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}

// newSource picks the sheet mirror database when one is configured and the
// Sheets API otherwise. A nil source makes every read serve fallback data.
func newSource(cfg *config.Config) (sheets.Source, *sql.DB) {
	if cfg.DatabaseURI != "" {
		db, err := database.NewDB(cfg.DatabaseURI)
		if err != nil {
			slog.Error("failed to connect to DB, using fallback data", "error", err)
			return nil, nil
		}
		if err := database.InitSchema(db); err != nil {
			slog.Error("failed to init DB schema, using fallback data", "error", err)
			database.CloseDB(db)
			return nil, nil
		}
		slog.Info("reading orders from database mirror")
		return sheets.NewPostgresSource(db), db
	}

	creds, err := sheets.LoadCredentials(cfg.CredentialsJSON, cfg.CredentialsFile)
	if err != nil {
		slog.Warn("Google Sheets credentials unavailable, using fallback data", "error", err)
		return nil, nil
	}
	src, err := sheets.NewGoogleSource(creds)
	if err != nil {
		slog.Error("failed to init Google Sheets client, using fallback data", "error", err)
		return nil, nil
	}
	slog.Info("Google Sheets client initialized", "client_email", creds.ClientEmail)
	return src, nil
}
