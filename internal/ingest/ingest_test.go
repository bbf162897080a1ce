package ingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/query"
	"github.com/rubiojr/gasfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	list *api.GasStationList
	err  error
}

func (f fakeFetcher) FetchPrices(context.Context) (*api.GasStationList, error) {
	return f.list, f.err
}

func feed() *api.GasStationList {
	return &api.GasStationList{
		ResultadoConsulta: api.ApiResultOK,
		ListaEESSPrecio: []api.GasStation{
			{
				IDEESS: "4375", Rotulo: "REPSOL", Localidad: "CORUÑA (A)", CP: "15008",
				PrecioGasoleoA: "1,459", PrecioGasolina95E5: "1,599", PrecioGasolina98E5: " ",
			},
			{IDEESS: "n/a", Rotulo: "BROKEN"},
			{IDEESS: "12", Rotulo: "CEPSA", Localidad: "ARTEIXO", CP: "15142", PrecioGasoleoPremium: "1,55"},
		},
	}
}

func TestParsePrice(t *testing.T) {
	require.NotNil(t, ParsePrice("1,459"))
	assert.Equal(t, 1.459, *ParsePrice("1,459"))
	assert.Equal(t, 1.5, *ParsePrice("1.5"))
	assert.Nil(t, ParsePrice(""))
	assert.Nil(t, ParsePrice("  "))
	assert.Nil(t, ParsePrice("N/D"))
}

func TestConvert(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	stations, snapshots, skipped := Convert(feed(), now, slog.New(slog.DiscardHandler))

	assert.Equal(t, 1, skipped)
	require.Len(t, stations, 2)
	require.Len(t, snapshots, 2)

	assert.Equal(t, int64(4375), stations[0].ID)
	assert.Equal(t, 1.459, *stations[0].Diesel)
	assert.Nil(t, stations[0].DieselExtra)
	assert.Nil(t, stations[0].Gasoline98)
	assert.Equal(t, now, stations[0].UpdatedAt)

	assert.Equal(t, gasdb.Snapshot{StationID: 4375, Date: "2026-10-18", Prices: stations[0].Prices}, snapshots[0])
	assert.Equal(t, int64(12), snapshots[1].StationID)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	store, err := gasdb.NewStorage(ctx, filepath.Join(t.TempDir(), "sync.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	res, err := Sync(ctx, fakeFetcher{list: feed()}, store, now, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, Result{Date: "2026-10-18", Stations: 2, Skipped: 1}, res)

	total, err := store.CountStations(ctx, query.Normalize("15"))
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	history, err := store.History(ctx, 4375)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-10-18", history[0].Date)
}

func TestSync_FetchError(t *testing.T) {
	_, err := Sync(context.Background(), fakeFetcher{err: errors.New("timeout")}, nil, time.Now(), slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "timeout")
}

func TestBackfill_KeepsCurrentStationRows(t *testing.T) {
	ctx := context.Background()
	store, err := gasdb.NewStorage(ctx, filepath.Join(t.TempDir(), "backfill.db"), nil)
	require.NoError(t, err)
	defer store.Close()
	logger := slog.New(slog.DiscardHandler)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	current := &api.GasStationList{
		ResultadoConsulta: api.ApiResultOK,
		ListaEESSPrecio: []api.GasStation{
			{IDEESS: "4375", Rotulo: "REPSOL", Localidad: "CORUÑA (A)", CP: "15008", PrecioGasoleoA: "1,600"},
		},
	}
	_, err = Sync(ctx, fakeFetcher{list: current}, store, now, logger)
	require.NoError(t, err)

	past := now.AddDate(0, 0, -30)
	historic := &api.GasStationList{
		ResultadoConsulta: api.ApiResultOK,
		ListaEESSPrecio: []api.GasStation{
			{IDEESS: "4375", Rotulo: "REPSOL", Localidad: "CORUÑA (A)", CP: "15008", PrecioGasoleoA: "0,900"},
		},
	}
	res, err := Backfill(ctx, fakeFetcher{list: historic}, store, past, logger)
	require.NoError(t, err)
	assert.Equal(t, Result{Date: "2026-09-19", Stations: 1, Skipped: 0}, res)

	stations, err := store.FindStations(ctx, query.Normalize("CORUÑA"), 0, 10)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, 1.6, *stations[0].Diesel)
	assert.True(t, stations[0].UpdatedAt.Equal(now))

	history, err := store.History(ctx, 4375)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-09-19", history[0].Date)
	assert.Equal(t, 0.9, *history[0].Diesel)
	assert.Equal(t, "2026-10-19", history[1].Date)
}

func TestBackfill_FetchError(t *testing.T) {
	_, err := Backfill(context.Background(), fakeFetcher{err: errors.New("timeout")}, nil, time.Now(), slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "timeout")
}
