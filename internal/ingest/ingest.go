// Package ingest turns the government price feed into station and daily
// snapshot rows. It runs once per invocation; scheduling is left to cron.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/pkg/api"
)

type Fetcher interface {
	FetchPrices(ctx context.Context) (*api.GasStationList, error)
}

type Store interface {
	SavePrices(ctx context.Context, stations []gasdb.Station, snapshots []gasdb.Snapshot) error
}

// SnapshotStore is the write side used when importing past days.
type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, snapshots []gasdb.Snapshot) error
}

// Result summarises one sync run.
type Result struct {
	Date     string
	Stations int
	Skipped  int
}

// Sync fetches the current feed and upserts every station plus one snapshot
// per station dated on now's calendar day.
func Sync(ctx context.Context, fetcher Fetcher, store Store, now time.Time, logger *slog.Logger) (Result, error) {
	list, err := fetcher.FetchPrices(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("error fetching prices: %w", err)
	}

	stations, snapshots, skipped := Convert(list, now, logger)
	if err := store.SavePrices(ctx, stations, snapshots); err != nil {
		return Result{}, fmt.Errorf("error saving prices: %w", err)
	}

	res := Result{Date: now.Format(gasdb.DateLayout), Stations: len(stations), Skipped: skipped}
	logger.Info("Price sync completed", "date", res.Date, "stations", res.Stations, "skipped", res.Skipped)
	return res, nil
}

// Backfill fetches the feed of a past day and stores only its snapshots,
// dated on date's calendar day. Station rows keep their current prices.
func Backfill(ctx context.Context, fetcher Fetcher, store SnapshotStore, date time.Time, logger *slog.Logger) (Result, error) {
	list, err := fetcher.FetchPrices(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("error fetching prices: %w", err)
	}

	_, snapshots, skipped := Convert(list, date, logger)
	if err := store.SaveSnapshots(ctx, snapshots); err != nil {
		return Result{}, fmt.Errorf("error saving snapshots: %w", err)
	}

	res := Result{Date: date.Format(gasdb.DateLayout), Stations: len(snapshots), Skipped: skipped}
	logger.Info("Price backfill completed", "date", res.Date, "stations", res.Stations, "skipped", res.Skipped)
	return res, nil
}

// Convert maps feed entries to rows. Entries without a numeric IDEESS are
// skipped and counted.
func Convert(list *api.GasStationList, now time.Time, logger *slog.Logger) ([]gasdb.Station, []gasdb.Snapshot, int) {
	date := now.Format(gasdb.DateLayout)
	stations := make([]gasdb.Station, 0, len(list.ListaEESSPrecio))
	snapshots := make([]gasdb.Snapshot, 0, len(list.ListaEESSPrecio))
	skipped := 0

	for i := range list.ListaEESSPrecio {
		eess := &list.ListaEESSPrecio[i]
		id, err := strconv.ParseInt(strings.TrimSpace(eess.IDEESS), 10, 64)
		if err != nil {
			logger.Warn("Skipping station with invalid id", "ideess", eess.IDEESS, "error", err)
			skipped++
			continue
		}

		prices := gasdb.Prices{
			Diesel:      ParsePrice(eess.PrecioGasoleoA),
			DieselExtra: ParsePrice(eess.PrecioGasoleoPremium),
			Gasoline95:  ParsePrice(eess.PrecioGasolina95E5),
			Gasoline98:  ParsePrice(eess.PrecioGasolina98E5),
		}

		stations = append(stations, gasdb.Station{
			ID:        id,
			Rotulo:    eess.Rotulo,
			Horario:   eess.Horario,
			Prices:    prices,
			Direccion: eess.Direccion,
			Provincia: eess.Provincia,
			Localidad: eess.Localidad,
			CP:        eess.CP,
			Longitud:  eess.Longitud,
			Latitud:   eess.Latitud,
			UpdatedAt: now,
		})
		snapshots = append(snapshots, gasdb.Snapshot{StationID: id, Date: date, Prices: prices})
	}

	return stations, snapshots, skipped
}

// ParsePrice parses a feed price such as "1,459". Empty or malformed values
// yield nil.
func ParsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}
