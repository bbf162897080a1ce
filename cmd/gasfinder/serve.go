package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/rubiojr/gasfinder/internal/fuel"
	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/server"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search, stats, suggestions and history JSON API",
		Flags: []cli.Flag{
			dbFlag(),
			timezoneFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   ":8080",
				EnvVars: []string{"GASFINDER_ADDR"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Usage:   "Requests per minute allowed per client IP, 0 disables",
				Value:   60,
				EnvVars: []string{"GASFINDER_RATE_LIMIT"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "Response cache TTL, 0 disables",
				Value:   time.Hour,
				EnvVars: []string{"GASFINDER_CACHE_TTL"},
			},
			&cli.IntFlag{
				Name:    "trend-chunk-size",
				Usage:   "Maximum station ids per trend lookup",
				Value:   fuel.DefaultTrendChunkSize,
				EnvVars: []string{"GASFINDER_TREND_CHUNK_SIZE"},
			},
			&cli.IntFlag{
				Name:    "page-size",
				Usage:   "Default search page size",
				Value:   server.DefaultPageSize,
				EnvVars: []string{"GASFINDER_PAGE_SIZE"},
			},
			&cli.IntFlag{
				Name:    "max-page-size",
				Usage:   "Largest page size a client may request",
				Value:   server.MaxPageSize,
				EnvVars: []string{"GASFINDER_MAX_PAGE_SIZE"},
			},
			&cli.BoolFlag{
				Name:    "metrics",
				Usage:   "Expose Prometheus metrics on /metrics",
				EnvVars: []string{"GASFINDER_METRICS"},
			},
			&cli.BoolFlag{
				Name:    "json-logs",
				Usage:   "Write logs as JSON",
				EnvVars: []string{"GASFINDER_JSON_LOGS"},
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	loc, err := loadLocation(c)
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("gasfinder", httplog.Options{
		JSON:            c.Bool("json-logs"),
		LogLevel:        level,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := gasdb.NewStorage(ctx, c.String("db"), logger.Logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	now := func() time.Time { return time.Now().In(loc) }
	svc := fuel.NewService(storage, fuel.Options{
		TrendChunkSize: c.Int("trend-chunk-size"),
		Now:            now,
		Logger:         logger.Logger,
	})

	handler := server.NewRouter(svc, server.Config{
		RateLimit:       c.Int("rate-limit"),
		CacheTTL:        c.Duration("cache-ttl"),
		DefaultPageSize: c.Int("page-size"),
		MaxPageSize:     c.Int("max-page-size"),
		ExposeMetrics:   c.Bool("metrics"),
		Now:             now,
	}, logger, nil)

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("Gracefully stopped")
	return nil
}
