package main

import (
	"errors"
	"fmt"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/urfave/cli/v2"
)

func pruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete price snapshots older than a number of days",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.IntFlag{
				Name:  "days",
				Usage: "Keep snapshots newer than this many days",
				Value: 365,
			},
			&cli.BoolFlag{
				Name:  "vacuum",
				Usage: "Reclaim free pages after deleting",
				Value: true,
			},
		},
		Action: pruneAction,
	}
}

func pruneAction(c *cli.Context) error {
	days := c.Int("days")
	if days < 1 {
		return errors.New("days must be at least 1")
	}

	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	storage, err := gasdb.NewStorage(c.Context, c.String("db"), logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	deleted, err := storage.DeleteOldRecords(c.Context, days)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d snapshots older than %d days\n", deleted, days)

	if c.Bool("vacuum") {
		return storage.VacuumDatabase(c.Context)
	}
	return nil
}
