package worker

import (
	"context"
	"log/slog"
	"time"

	"boothorders/internal/model"
)

type OrderLoader interface {
	Orders(ctx context.Context, forceRefresh bool) []model.Order
}

// CacheWarmer force-refreshes the order cache on a fixed interval so that
// requests rarely pay for a sheet fetch.
type CacheWarmer struct {
	loader   OrderLoader
	interval time.Duration
}

func NewCacheWarmer(loader OrderLoader, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		loader:   loader,
		interval: interval,
	}
}

func (w *CacheWarmer) Start(ctx context.Context) {
	slog.Info("starting cache warmer", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("cache warmer stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *CacheWarmer) warm(ctx context.Context) {
	orders := w.loader.Orders(ctx, true)
	slog.Debug("order cache warmed", "orders", len(orders))
}
