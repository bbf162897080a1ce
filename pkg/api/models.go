package api

// GasStationList represents the response structure from the fuel price API.
type GasStationList struct {
	Fecha             string       `json:"Fecha"`
	ListaEESSPrecio   []GasStation `json:"ListaEESSPrecio"`
	Nota              string       `json:"Nota"`
	ResultadoConsulta string       `json:"ResultadoConsulta"`
}

// GasStation is a single station entry of the feed. Prices use a decimal
// comma and are empty when the station does not sell that fuel.
type GasStation struct {
	IDEESS               string `json:"IDEESS"`
	Rotulo               string `json:"Rótulo"`
	Horario              string `json:"Horario"`
	Direccion            string `json:"Dirección"`
	Provincia            string `json:"Provincia"`
	Municipio            string `json:"Municipio"`
	Localidad            string `json:"Localidad"`
	CP                   string `json:"C.P."`
	Latitud              string `json:"Latitud"`
	Longitud             string `json:"Longitud (WGS84)"`
	PrecioGasoleoA       string `json:"Precio Gasoleo A"`
	PrecioGasoleoPremium string `json:"Precio Gasoleo Premium"`
	PrecioGasolina95E5   string `json:"Precio Gasolina 95 E5"`
	PrecioGasolina98E5   string `json:"Precio Gasolina 98 E5"`
}
