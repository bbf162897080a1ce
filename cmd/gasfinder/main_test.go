package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMissingDays(t *testing.T) {
	dates := []time.Time{day("2026-10-01"), day("2026-10-03"), day("2026-10-05")}

	got := missingDays(dates, day("2026-10-01"), day("2026-10-05"))
	assert.Equal(t, []string{"2026-10-02", "2026-10-04"}, got)

	assert.Empty(t, missingDays(dates, day("2026-10-03"), day("2026-10-03")))
	assert.Empty(t, missingDays(dates, day("2026-10-05"), day("2026-10-01")))
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = parseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	p := 1.4589
	assert.Equal(t, "1.459 €", formatPrice(&p))
	assert.Equal(t, "n/a", formatPrice(nil))
}

func TestPricesOn(t *testing.T) {
	current, old := 1.6, 0.9
	nearby := []gasdb.StationDistance{
		{Station: gasdb.Station{ID: 1, Prices: gasdb.Prices{Diesel: &current}}, Distance: 100},
		{Station: gasdb.Station{ID: 2, Prices: gasdb.Prices{Diesel: &current}}, Distance: 200},
	}
	snapshots := []gasdb.Snapshot{{StationID: 2, Date: "2026-09-19", Prices: gasdb.Prices{Diesel: &old}}}

	got := pricesOn(nearby, snapshots)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Station.ID)
	assert.Equal(t, 0.9, *got[0].Station.Diesel)
	assert.Equal(t, 200.0, got[0].Distance)
	assert.Equal(t, 1.6, *nearby[1].Station.Diesel)
}
