package service

import (
	"context"
	"log/slog"
	"time"

	"boothorders/internal/cache"
	"boothorders/internal/model"
	"boothorders/internal/sheets"
)

const OrdersCacheKey = "all_orders"

// OrderRepository loads orders from the sheet through the shared cache. It
// is the only writer of OrdersCacheKey and never returns an error: every
// upstream failure degrades to FallbackOrders.
type OrderRepository struct {
	cache        *cache.TTL[any]
	source       sheets.Source
	sheetID      string
	worksheet    string
	fetchTimeout time.Duration
}

func NewOrderRepository(c *cache.TTL[any], source sheets.Source, sheetID, worksheet string, fetchTimeout time.Duration) *OrderRepository {
	if worksheet == "" {
		worksheet = "Orders"
	}
	return &OrderRepository{
		cache:        c,
		source:       source,
		sheetID:      sheetID,
		worksheet:    worksheet,
		fetchTimeout: fetchTimeout,
	}
}

// Orders returns the current order set. Unless forceRefresh is set a fresh
// cache entry is returned as is.
func (r *OrderRepository) Orders(ctx context.Context, forceRefresh bool) []model.Order {
	if !forceRefresh {
		if v, ok := r.cache.Get(OrdersCacheKey, true); ok {
			if orders, ok := v.([]model.Order); ok && len(orders) > 0 {
				slog.DebugContext(ctx, "using cached orders", "key", OrdersCacheKey)
				return orders
			}
		}
	}

	// The fetch outlives a disconnected caller; it is bounded by fetchTimeout.
	res := sheets.FetchGrid(context.WithoutCancel(ctx), r.source, r.sheetID, r.worksheet, r.fetchTimeout)
	if res.OK() {
		orders := sheets.Parse(res.Grid)
		if len(orders) > 0 {
			r.cache.Set(OrdersCacheKey, orders)
			slog.InfoContext(ctx, "loaded orders from sheet",
				"rows", len(res.Grid),
				"orders", len(orders),
				"elapsed", res.Elapsed,
				"force_refresh", forceRefresh,
			)
			return orders
		}
		slog.WarnContext(ctx, "sheet has no valid orders, using fallback data", "rows", len(res.Grid))
	} else {
		slog.WarnContext(ctx, "order source failed, using fallback data", "error", res.Err)
	}

	fallback := FallbackOrders()
	r.cache.Set(OrdersCacheKey, fallback)
	return fallback
}

func (r *OrderRepository) SourceConnected() bool {
	return r.source != nil
}

// Worksheets lists the worksheets of the configured sheet, or an empty list
// when the source cannot enumerate them.
func (r *OrderRepository) Worksheets(ctx context.Context) []string {
	lister, ok := r.source.(sheets.WorksheetLister)
	if !ok {
		return []string{}
	}

	timeout := r.fetchTimeout
	if timeout <= 0 {
		timeout = sheets.DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := lister.Worksheets(ctx, r.sheetID)
	if err != nil {
		slog.WarnContext(ctx, "list worksheets failed", "error", err)
		return []string{}
	}
	if names == nil {
		names = []string{}
	}
	return names
}
