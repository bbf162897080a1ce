// Package fuel answers station searches, price statistics, locality
// suggestions and price history on top of a relational store.
package fuel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/query"
)

const (
	DefaultTrendChunkSize = 100
	MinSuggestionLength   = 2
	MaxSuggestions        = 10

	// suggestionScanLimit bounds how many distinct localities are read per
	// suggestion request.
	suggestionScanLimit = 100
)

// ErrInvalidArgument marks errors caused by malformed caller input.
var ErrInvalidArgument = errors.New("invalid argument")

// Store is the read side of the station database.
type Store interface {
	CountStations(ctx context.Context, cs query.Conditions) (int, error)
	FindStations(ctx context.Context, cs query.Conditions, offset, limit int) ([]gasdb.Station, error)
	StationPrices(ctx context.Context, cs query.Conditions) ([]gasdb.Prices, error)
	Localities(ctx context.Context, cs query.Conditions, limit int) ([]string, error)
	SnapshotsByDate(ctx context.Context, date time.Time, ids []int64) ([]gasdb.Snapshot, error)
	History(ctx context.Context, stationID int64) ([]gasdb.Snapshot, error)
}

type Options struct {
	// TrendChunkSize caps how many station ids go into one snapshot lookup.
	TrendChunkSize int
	// Now returns the current time; its calendar day is "today" for trends.
	Now    func() time.Time
	Logger *slog.Logger
}

type Service struct {
	store      Store
	trendChunk int
	now        func() time.Time
	log        *slog.Logger
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:      store,
		trendChunk: opts.TrendChunkSize,
		now:        opts.Now,
		log:        opts.Logger,
	}
	if s.trendChunk <= 0 {
		s.trendChunk = DefaultTrendChunkSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}
