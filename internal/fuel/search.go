package fuel

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/query"
	"golang.org/x/sync/errgroup"
)

// StationResult is a station plus its previous-day snapshot, if any.
type StationResult struct {
	gasdb.Station
	Trend *gasdb.Snapshot `json:"trend"`
}

type Meta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

type SearchResult struct {
	Data []StationResult `json:"data"`
	Meta Meta            `json:"meta"`
}

// Search returns one page of stations whose locality or postal code matches
// q, ordered by postal code. Pages past the end come back empty.
func (s *Service) Search(ctx context.Context, q string, page, limit int) (*SearchResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidArgument)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1", ErrInvalidArgument)
	}
	if page-1 > math.MaxInt/limit {
		return nil, fmt.Errorf("%w: page out of range", ErrInvalidArgument)
	}

	cs := query.Normalize(q)
	offset := (page - 1) * limit

	var (
		total    int
		stations []gasdb.Station
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.CountStations(gctx, cs)
		return err
	})
	g.Go(func() error {
		var err error
		stations, err = s.store.FindStations(gctx, cs, offset, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trends, err := s.trends(ctx, stations, s.now().AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	data := make([]StationResult, 0, len(stations))
	for _, st := range stations {
		data = append(data, StationResult{Station: st, Trend: trends[st.ID]})
	}

	s.log.Debug("Search", "query", q, "conditions", len(cs), "page", page, "total", total)

	return &SearchResult{
		Data: data,
		Meta: Meta{
			Total:    total,
			Page:     page,
			LastPage: (total + limit - 1) / limit,
		},
	}, nil
}

// trends maps station ids to their snapshot on day. Ids are looked up in
// batches of at most trendChunk; stations without a snapshot are absent.
func (s *Service) trends(ctx context.Context, stations []gasdb.Station, day time.Time) (map[int64]*gasdb.Snapshot, error) {
	out := make(map[int64]*gasdb.Snapshot, len(stations))
	if len(stations) == 0 {
		return out, nil
	}

	ids := make([]int64, len(stations))
	for i, st := range stations {
		ids[i] = st.ID
	}

	for start := 0; start < len(ids); start += s.trendChunk {
		end := min(start+s.trendChunk, len(ids))
		snapshots, err := s.store.SnapshotsByDate(ctx, day, ids[start:end])
		if err != nil {
			return nil, err
		}
		for i := range snapshots {
			out[snapshots[i].StationID] = &snapshots[i]
		}
	}
	return out, nil
}
