// Package server exposes the fuel service as JSON over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/gasfinder/internal/fuel"
	"github.com/rubiojr/gasfinder/internal/gasdb"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
	cacheCleanup    = 10 * time.Minute
)

// Service is what the HTTP layer needs from the fuel service.
type Service interface {
	Search(ctx context.Context, q string, page, limit int) (*fuel.SearchResult, error)
	Stats(ctx context.Context, location string) (*fuel.Stats, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
	History(ctx context.Context, stationID int64) ([]gasdb.Snapshot, error)
}

type Config struct {
	// RateLimit is the number of requests allowed per IP and minute; 0 disables it.
	RateLimit int
	// CacheTTL is how long read responses are cached; 0 disables caching.
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	// ExposeMetrics mounts the Prometheus handler on /metrics.
	ExposeMetrics bool
	// Now gives the calendar day that keys cached search responses.
	// Defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	svc     Service
	cfg     Config
	cache   *cache.Cache
	metrics *Metrics
	log     *httplog.Logger
}

// NewRouter wires the middleware stack and routes.
func NewRouter(svc Service, cfg Config, logger *httplog.Logger, metrics *Metrics) http.Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = MaxPageSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	h := &Handler{svc: svc, cfg: cfg, metrics: metrics, log: logger}
	if cfg.CacheTTL > 0 {
		h.cache = cache.New(cfg.CacheTTL, cacheCleanup)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", h.Health)
	if cfg.ExposeMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Get("/search", h.Search)
		r.Get("/stats", h.Stats)
		r.Get("/suggestions", h.Suggestions)
		r.Get("/history", h.History)
	})

	return r
}
