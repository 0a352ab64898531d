package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"boothorders/internal/cache"
	"boothorders/internal/mw"
	"boothorders/internal/service"
)

type Deps struct {
	Aggregator *service.Aggregator
	Repo       *service.OrderRepository
	Cache      *cache.TTL[any]
	StaticDir  string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(mw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.HeaderRequestID},
		ExposedHeaders: []string{mw.HeaderRequestID},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler(d.Repo, d.Cache))
		r.Get("/worksheets", WorksheetsHandler(d.Repo))

		r.Get("/orders", ListOrdersHandler(d.Aggregator))
		r.Get("/orders/exhibitor/{name}", ExhibitorOrdersHandler(d.Aggregator))
		r.Get("/orders/booth/{booth}", BoothOrdersHandler(d.Aggregator))
		r.Get("/exhibitors", ListExhibitorsHandler(d.Aggregator))
		r.Get("/stats", StatsHandler(d.Aggregator))

		r.Post("/clear-cache", ClearCacheHandler(d.Cache))
	})

	if d.StaticDir != "" {
		r.Get("/*", StaticHandler(d.StaticDir))
	}

	return r
}
