package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const defaultDB = "fuel_prices.db"

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "gasfinder",
		Usage: "Search Spanish fuel stations by locality and track daily prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"GASFINDER_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			updateCommand(),
			listNearbyCommand(),
			checkStatusCommand(),
			pruneCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "Database file",
		Value:   defaultDB,
		EnvVars: []string{"GASFINDER_DB"},
	}
}

func timezoneFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "timezone",
		Usage:   "Time zone that decides the calendar day of snapshots",
		Value:   "Europe/Madrid",
		EnvVars: []string{"GASFINDER_TIMEZONE"},
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func newLogger(c *cli.Context) (*slog.Logger, error) {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func loadLocation(c *cli.Context) (*time.Location, error) {
	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return nil, fmt.Errorf("error loading time zone: %w", err)
	}
	return loc, nil
}
