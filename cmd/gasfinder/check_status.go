package main

import (
	"fmt"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/urfave/cli/v2"
)

// firstFeedDay is the earliest day the historic feed publishes.
var firstFeedDay = time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC)

func checkStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-status",
		Usage: "Check for days with missing price snapshots",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "start",
				Usage: "Start date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "End date (YYYY-MM-DD)",
			},
		},
		Action: checkStatusAction,
	}
}

func checkStatusAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	storage, err := gasdb.NewStorage(c.Context, c.String("db"), logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	lastUpdate, err := storage.GetLastUpdateDate(c.Context)
	if err != nil {
		return err
	}
	if lastUpdate != nil {
		fmt.Printf("Last station update: %s\n", lastUpdate.Format(time.RFC3339))
	}

	allDates, err := storage.GetAllDates(c.Context)
	if err != nil {
		return err
	}
	if len(allDates) == 0 {
		fmt.Println("No dates found in database.")
		return nil
	}

	startDate, err := dateFlag(c, "start", firstFeedDay)
	if err != nil {
		return err
	}
	endDate, err := dateFlag(c, "end", time.Now().UTC())
	if err != nil {
		return err
	}

	fmt.Printf("Checking for missing days in range: %s to %s\n",
		startDate.Format(gasdb.DateLayout), endDate.Format(gasdb.DateLayout))

	missing := missingDays(allDates, startDate, endDate)
	if len(missing) == 0 {
		fmt.Println("No missing days in the given range.")
		return nil
	}
	fmt.Println("Missing days:")
	for _, m := range missing {
		fmt.Println(m)
	}
	return nil
}

func dateFlag(c *cli.Context, name string, def time.Time) (time.Time, error) {
	v := c.String(name)
	if v == "" {
		return def, nil
	}
	d, err := time.Parse(gasdb.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date: %w", name, err)
	}
	return d, nil
}

// missingDays lists the calendar days in [start, end] that have no entry in
// dates.
func missingDays(dates []time.Time, start, end time.Time) []string {
	dateSet := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		dateSet[d.Format(gasdb.DateLayout)] = struct{}{}
	}

	var missing []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		ds := d.Format(gasdb.DateLayout)
		if _, ok := dateSet[ds]; !ok {
			missing = append(missing, ds)
		}
	}
	return missing
}
