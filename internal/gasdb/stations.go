package gasdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/gasfinder/internal/query"
	"github.com/tkrajina/gpxgo/gpx"
)

const stationColumns = `id_ss, rotulo, horario,
	precio_diesel, precio_diesel_extra, precio_gasolina_95, precio_gasolina_98,
	direccion, provincia, localidad, cp, longitud, latitud, fecha_actualizacion`

// CountStations returns how many stations match any of the conditions.
func (s *Storage) CountStations(ctx context.Context, cs query.Conditions) (int, error) {
	where, args := cs.SQL()

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stations WHERE "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error counting stations: %w", err)
	}
	return total, nil
}

// FindStations returns one page of matching stations ordered by postal code,
// ties broken by station id.
func (s *Storage) FindStations(ctx context.Context, cs query.Conditions, offset, limit int) ([]Station, error) {
	where, args := cs.SQL()
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+stationColumns+" FROM stations WHERE "+where+
			" ORDER BY cp ASC, id_ss ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}
	defer rows.Close()

	stations := []Station{}
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}
	return stations, nil
}

// StationPrices returns the price columns of every matching station.
func (s *Storage) StationPrices(ctx context.Context, cs query.Conditions) ([]Prices, error) {
	where, args := cs.SQL()

	rows, err := s.db.QueryContext(ctx,
		`SELECT precio_diesel, precio_diesel_extra, precio_gasolina_95, precio_gasolina_98
		FROM stations WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying station prices: %w", err)
	}
	defer rows.Close()

	var prices []Prices
	for rows.Next() {
		var np nullPrices
		if err := rows.Scan(np.dest()...); err != nil {
			return nil, fmt.Errorf("error scanning station prices: %w", err)
		}
		prices = append(prices, np.prices())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating station prices: %w", err)
	}
	return prices, nil
}

// Localities returns up to limit distinct matching locality names.
func (s *Storage) Localities(ctx context.Context, cs query.Conditions, limit int) ([]string, error) {
	where, args := cs.SQL()
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT localidad FROM stations WHERE "+where+" ORDER BY localidad LIMIT ?", args...)
	if err != nil {
		return nil, fmt.Errorf("error querying localities: %w", err)
	}
	defer rows.Close()

	var localities []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("error scanning locality: %w", err)
		}
		localities = append(localities, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating localities: %w", err)
	}
	return localities, nil
}

// GetLastUpdateDate returns the newest station update time, or nil when the
// table is empty.
func (s *Storage) GetLastUpdateDate(ctx context.Context) (*time.Time, error) {
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT MAX(fecha_actualizacion) FROM stations").Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("error querying last update date: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}

	lastUpdate, err := time.Parse(time.RFC3339Nano, last.String)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %s: %w", last.String, err)
	}
	return &lastUpdate, nil
}

// NearbyStations returns stations within distance meters of lat/lng,
// closest first. Stations with unparseable coordinates are skipped.
func (s *Storage) NearbyStations(ctx context.Context, lat, lng, distance float64) ([]StationDistance, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+stationColumns+" FROM stations")
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}
	defer rows.Close()

	var nearby []StationDistance
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}

		stationLat, err := ParseLatLong(st.Latitud)
		if err != nil {
			continue
		}
		stationLng, err := ParseLatLong(st.Longitud)
		if err != nil {
			continue
		}

		d := gpx.Distance2D(lat, lng, stationLat, stationLng, true)
		if d <= distance {
			nearby = append(nearby, StationDistance{Station: st, Distance: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})
	return nearby, nil
}

// ParseLatLong parses a coordinate written with either a decimal comma or point.
func ParseLatLong(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return m, nil
}

func scanStation(rows *sql.Rows) (Station, error) {
	var (
		st      Station
		np      nullPrices
		updated string
	)

	dest := append([]any{&st.ID, &st.Rotulo, &st.Horario}, np.dest()...)
	dest = append(dest, &st.Direccion, &st.Provincia, &st.Localidad, &st.CP,
		&st.Longitud, &st.Latitud, &updated)
	if err := rows.Scan(dest...); err != nil {
		return st, fmt.Errorf("error scanning station: %w", err)
	}

	st.Prices = np.prices()
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return st, fmt.Errorf("error parsing fecha_actualizacion for station %d: %w", st.ID, err)
	}
	st.UpdatedAt = t
	return st, nil
}
