package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/muesli/gominatim"
	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/urfave/cli/v2"
)

const (
	defaultRadiusKm = 5.0
	metersPerKm     = 1000.0
)

func listNearbyCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-nearby",
		Usage: "List gas stations around a place or coordinates",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "location",
				Usage: "Place name to geocode",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "long",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   defaultRadiusKm,
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Show the prices recorded on this day (YYYY-MM-DD) instead of the current ones",
			},
			&cli.StringFlag{
				Name:    "nominatim-url",
				Usage:   "Nominatim server used to geocode --location",
				Value:   "https://nominatim.openstreetmap.org/",
				EnvVars: []string{"GASFINDER_NOMINATIM_URL"},
			},
		},
		Action: listNearbyAction,
	}
}

func listNearbyAction(c *cli.Context) error {
	lat := c.Float64("lat")
	lng := c.Float64("long")

	if name := c.String("location"); name != "" {
		var err error
		lat, lng, err = geocode(c.String("nominatim-url"), name)
		if err != nil {
			return err
		}
	} else if lat == 0 && lng == 0 {
		return errors.New("location or latitude and longitude are required")
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

	var date time.Time
	if d := c.String("date"); d != "" {
		date, err = time.Parse(gasdb.DateLayout, d)
		if err != nil {
			return fmt.Errorf("error parsing date: %w", err)
		}
	}

	radius := c.Float64("radius")
	fmt.Printf("Filtering stations within %g km radius...\n\n", radius)

	nearby, err := storage.NearbyStations(c.Context, lat, lng, radius*metersPerKm)
	if err != nil {
		return fmt.Errorf("error fetching nearby stations: %w", err)
	}

	if !date.IsZero() && len(nearby) > 0 {
		ids := make([]int64, len(nearby))
		for i, sd := range nearby {
			ids[i] = sd.Station.ID
		}
		snapshots, err := storage.SnapshotsByDate(c.Context, date, ids)
		if err != nil {
			return fmt.Errorf("error fetching snapshots: %w", err)
		}
		nearby = pricesOn(nearby, snapshots)
		fmt.Printf("Prices recorded on %s\n\n", date.Format(gasdb.DateLayout))
	}

	for i, sd := range nearby {
		st := sd.Station
		fmt.Printf("%d. %s (%s)\n", i+1, st.Rotulo, st.Direccion)
		fmt.Printf("   Locality: %s (%s)\n", st.Localidad, st.CP)
		fmt.Printf("   Distance: %.2f km\n", sd.Distance/metersPerKm)
		fmt.Printf("   Gasoline 95: %s\n", formatPrice(st.Gasoline95))
		fmt.Printf("   Gasoline 98: %s\n", formatPrice(st.Gasoline98))
		fmt.Printf("   Diesel: %s\n", formatPrice(st.Diesel))
		fmt.Printf("   Premium Diesel: %s\n\n", formatPrice(st.DieselExtra))
	}

	fmt.Printf("Found %d stations within %g km radius\n", len(nearby), radius)
	return nil
}

// pricesOn swaps each station's current prices for its snapshot prices.
// Stations without a snapshot are dropped.
func pricesOn(nearby []gasdb.StationDistance, snapshots []gasdb.Snapshot) []gasdb.StationDistance {
	byID := make(map[int64]gasdb.Prices, len(snapshots))
	for _, sn := range snapshots {
		byID[sn.StationID] = sn.Prices
	}

	out := make([]gasdb.StationDistance, 0, len(nearby))
	for _, sd := range nearby {
		p, ok := byID[sd.Station.ID]
		if !ok {
			continue
		}
		sd.Station.Prices = p
		out = append(out, sd)
	}
	return out
}

func geocode(server, name string) (float64, float64, error) {
	gominatim.SetServer(server)
	qry := gominatim.SearchQuery{Q: name}

	resp, err := qry.Get()
	if err != nil {
		return 0, 0, fmt.Errorf("error geocoding %q: %w", name, err)
	}
	if len(resp) == 0 {
		return 0, 0, fmt.Errorf("location %q not found", name)
	}
	fmt.Println("Location found:", resp[0].DisplayName)

	lat, err := strconv.ParseFloat(resp[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(resp[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing longitude: %w", err)
	}
	return lat, lng, nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f €", *p)
}
