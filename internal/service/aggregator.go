package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"boothorders/internal/cache"
	"boothorders/internal/model"
)

const (
	ExhibitorsCacheKey      = "exhibitors"
	exhibitorCacheKeyPrefix = "exhibitor_"
)

type ExhibitorOrders struct {
	Exhibitor       string        `json:"exhibitor"`
	Orders          []model.Order `json:"orders"`
	TotalOrders     int           `json:"total_orders"`
	DeliveredOrders int           `json:"delivered_orders"`
	LastUpdated     time.Time     `json:"last_updated"`
	ForceRefreshed  bool          `json:"force_refreshed"`
}

type BoothOrders struct {
	Booth       string        `json:"booth"`
	Orders      []model.Order `json:"orders"`
	TotalOrders int           `json:"total_orders"`
	LastUpdated time.Time     `json:"last_updated"`
}

type StatsReport struct {
	model.Stats
	LastUpdated time.Time `json:"last_updated"`
}

// Aggregator derives exhibitor, booth and status views from the
// repository's current order set.
type Aggregator struct {
	repo  *OrderRepository
	cache *cache.TTL[any]
	now   func() time.Time
}

func NewAggregator(repo *OrderRepository, c *cache.TTL[any]) *Aggregator {
	return &Aggregator{repo: repo, cache: c, now: time.Now}
}

func (a *Aggregator) Orders(ctx context.Context, forceRefresh bool) []model.Order {
	return a.repo.Orders(ctx, forceRefresh)
}

func (a *Aggregator) Exhibitors(ctx context.Context, forceRefresh bool) []model.ExhibitorSummary {
	if !forceRefresh {
		if v, ok := a.cache.Get(ExhibitorsCacheKey, true); ok {
			if summaries, ok := v.([]model.ExhibitorSummary); ok && len(summaries) > 0 {
				return summaries
			}
		}
	}

	summaries := ByExhibitor(a.repo.Orders(ctx, forceRefresh))
	a.cache.Set(ExhibitorsCacheKey, summaries)
	return summaries
}

// Exhibitor returns the orders of one exhibitor, matched case-insensitively.
// A cached result is returned with the timestamp it was built with.
func (a *Aggregator) Exhibitor(ctx context.Context, name string, forceRefresh bool) ExhibitorOrders {
	key := exhibitorCacheKeyPrefix + name
	if !forceRefresh {
		if v, ok := a.cache.Get(key, true); ok {
			if res, ok := v.(ExhibitorOrders); ok {
				return res
			}
		}
	}

	orders := FilterExhibitor(a.repo.Orders(ctx, forceRefresh), name)
	res := ExhibitorOrders{
		Exhibitor:       name,
		Orders:          orders,
		TotalOrders:     len(orders),
		DeliveredOrders: countStatus(orders, model.StatusDelivered),
		LastUpdated:     a.now(),
		ForceRefreshed:  forceRefresh,
	}
	a.cache.Set(key, res)

	if forceRefresh {
		slog.InfoContext(ctx, "manual refresh for exhibitor", "exhibitor", name, "orders", len(orders))
	}
	return res
}

func (a *Aggregator) Booth(ctx context.Context, booth string, forceRefresh bool) BoothOrders {
	orders := FilterBooth(a.repo.Orders(ctx, forceRefresh), booth)
	return BoothOrders{
		Booth:       booth,
		Orders:      orders,
		TotalOrders: len(orders),
		LastUpdated: a.now(),
	}
}

func (a *Aggregator) Stats(ctx context.Context, forceRefresh bool) StatsReport {
	return StatsReport{
		Stats:       ComputeStats(a.repo.Orders(ctx, forceRefresh)),
		LastUpdated: a.now(),
	}
}

// ByExhibitor groups orders by exact exhibitor name, keeping first-seen
// order. Booth is taken from the first order of each exhibitor.
func ByExhibitor(orders []model.Order) []model.ExhibitorSummary {
	summaries := make([]model.ExhibitorSummary, 0)
	index := make(map[string]int)

	for _, o := range orders {
		i, ok := index[o.ExhibitorName]
		if !ok {
			i = len(summaries)
			index[o.ExhibitorName] = i
			summaries = append(summaries, model.ExhibitorSummary{
				Name:  o.ExhibitorName,
				Booth: o.BoothNumber,
			})
		}
		summaries[i].TotalOrders++
		if o.Status == model.StatusDelivered {
			summaries[i].DeliveredOrders++
		}
	}

	return summaries
}

// FilterExhibitor matches names case-insensitively, unlike ByExhibitor.
func FilterExhibitor(orders []model.Order, name string) []model.Order {
	out := make([]model.Order, 0)
	for _, o := range orders {
		if strings.EqualFold(o.ExhibitorName, name) {
			out = append(out, o)
		}
	}
	return out
}

func FilterBooth(orders []model.Order, booth string) []model.Order {
	out := make([]model.Order, 0)
	for _, o := range orders {
		if o.BoothNumber == booth {
			out = append(out, o)
		}
	}
	return out
}

func ComputeStats(orders []model.Order) model.Stats {
	s := model.Stats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case model.StatusDelivered:
			s.Delivered++
		case model.StatusInProcess:
			s.InProcess++
		case model.StatusInRoute:
			s.InRoute++
		case model.StatusOutForDelivery:
			s.OutForDelivery++
		case model.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

func countStatus(orders []model.Order, status model.Status) int {
	n := 0
	for _, o := range orders {
		if o.Status == status {
			n++
		}
	}
	return n
}
