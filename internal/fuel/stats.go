package fuel

import (
	"context"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/query"
)

// FuelStats summarises the positive prices of one fuel. All fields are 0
// when no station sells it.
type FuelStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Stats struct {
	Diesel      FuelStats `json:"diesel"`
	DieselExtra FuelStats `json:"diesel_extra"`
	Gas95       FuelStats `json:"gas95"`
	Gas98       FuelStats `json:"gas98"`
}

// Stats aggregates prices over every station matching location. It returns
// nil when nothing matches.
func (s *Service) Stats(ctx context.Context, location string) (*Stats, error) {
	prices, err := s.store.StationPrices(ctx, query.Normalize(location))
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}

	pick := func(f func(gasdb.Prices) *float64) FuelStats {
		var values []float64
		for _, p := range prices {
			if v := f(p); v != nil {
				values = append(values, *v)
			}
		}
		return summarize(values)
	}

	return &Stats{
		Diesel:      pick(func(p gasdb.Prices) *float64 { return p.Diesel }),
		DieselExtra: pick(func(p gasdb.Prices) *float64 { return p.DieselExtra }),
		Gas95:       pick(func(p gasdb.Prices) *float64 { return p.Gasoline95 }),
		Gas98:       pick(func(p gasdb.Prices) *float64 { return p.Gasoline98 }),
	}, nil
}

// summarize ignores zero and negative values.
func summarize(values []float64) FuelStats {
	var (
		fs    FuelStats
		sum   float64
		count int
	)
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if count == 0 || v < fs.Min {
			fs.Min = v
		}
		if count == 0 || v > fs.Max {
			fs.Max = v
		}
		sum += v
		count++
	}
	if count > 0 {
		fs.Avg = sum / float64(count)
	}
	return fs
}
