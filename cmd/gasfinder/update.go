package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/ingest"
	"github.com/rubiojr/gasfinder/pkg/api"
	"github.com/urfave/cli/v2"
)

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Fetch the price feed and store today's snapshot",
		Flags: []cli.Flag{
			dbFlag(),
			timezoneFlag(),
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the fuel price REST service",
				Value:   api.DefaultBaseURL,
				EnvVars: []string{"GASFINDER_API_URL"},
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Import only the price history of this past day (YYYY-MM-DD)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP timeout for the feed request",
				Value: 2 * time.Minute,
			},
		},
		Action: updateAction,
	}
}

// historicFetcher serves the feed of a past day through the ingest.Fetcher
// interface.
type historicFetcher struct {
	api  *api.FuelPriceAPI
	date time.Time
}

func (f historicFetcher) FetchPrices(ctx context.Context) (*api.GasStationList, error) {
	return f.api.FetchPricesForDate(ctx, f.date)
}

func updateAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	loc, err := loadLocation(c)
	if err != nil {
		return err
	}

	client := api.NewFuelPriceAPI(
		api.WithBaseURL(c.String("api-url")),
		api.WithHTTPClient(&http.Client{Timeout: c.Duration("timeout")}),
	)

	var date time.Time
	if d := c.String("date"); d != "" {
		date, err = time.ParseInLocation(gasdb.DateLayout, d, loc)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	storage, err := gasdb.NewStorage(c.Context, c.String("db"), logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	var res ingest.Result
	if date.IsZero() {
		res, err = ingest.Sync(c.Context, client, storage, time.Now().In(loc), logger)
	} else {
		res, err = ingest.Backfill(c.Context, historicFetcher{api: client, date: date}, storage, date, logger)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Stored %d stations for %s (%d skipped)\n", res.Stations, res.Date, res.Skipped)
	return nil
}
