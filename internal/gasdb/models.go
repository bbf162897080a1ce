package gasdb

import (
	"database/sql"
	"time"
)

// Prices holds the four tracked fuel prices in euros per litre.
// A nil price means the station does not sell that fuel.
type Prices struct {
	Diesel      *float64 `json:"precio_diesel"`
	DieselExtra *float64 `json:"precio_diesel_extra"`
	Gasoline95  *float64 `json:"precio_gasolina_95"`
	Gasoline98  *float64 `json:"precio_gasolina_98"`
}

// Station is one row of the stations table.
type Station struct {
	ID      int64  `json:"id_ss"`
	Rotulo  string `json:"rotulo"`
	Horario string `json:"horario"`
	Prices
	Direccion string    `json:"direccion"`
	Provincia string    `json:"provincia"`
	Localidad string    `json:"localidad"`
	CP        string    `json:"cp"`
	Longitud  string    `json:"longitud"`
	Latitud   string    `json:"latitud"`
	UpdatedAt time.Time `json:"fecha_actualizacion"`
}

// Snapshot is a station's prices on one calendar day.
type Snapshot struct {
	StationID int64  `json:"id_ss"`
	Date      string `json:"fecha"`
	Prices
}

// StationDistance associates a Station with a computed distance in meters.
type StationDistance struct {
	Station  Station
	Distance float64
}

type nullPrices struct {
	diesel, dieselExtra, gas95, gas98 sql.NullFloat64
}

func (n *nullPrices) dest() []any {
	return []any{&n.diesel, &n.dieselExtra, &n.gas95, &n.gas98}
}

func (n *nullPrices) prices() Prices {
	return Prices{
		Diesel:      nullable(n.diesel),
		DieselExtra: nullable(n.dieselExtra),
		Gasoline95:  nullable(n.gas95),
		Gasoline98:  nullable(n.gas98),
	}
}

func nullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func priceArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
