package Reporting

import "time"

// EmptyTripMarker fills the client/company columns of synthesized empty
// legs.
const EmptyTripMarker = "VIAJE VACÍO"

// ColumnOrder is the fixed export layout. The tail columns past
// MANTTO_TRACTOS belong to the costing template and are filled downstream by
// the finance team, so they export blank.
var ColumnOrder = []string{
	"TR_NO_VIAJE", "NO_TRACTO", "PLACAS_TRACTO", "NO_REMOLQUE", "PLACAS_REMOLQUE",
	"NOMBRE_OP", "ORIGEN", "DESTINO", "CLIENTE", "EMPRESA", "CARGA_KILOS", "ADRH_OT",
	"FECHA_CARGA", "HORA_CARGA", "FECHA_DESCARGA", "HORA_DESCARGA",
	"REPARTOS", "MANIOBRAS", "ESTADIAS", "FLETE_VACIO", "FLETE_FALSO", "RECHAZOS",
	"COSTO_VIAJE", "KM_RECORRIDOS", "CONSUMO_LTS_DIESEL", "RENDIMIENTO",
	"PRECIO_DIESEL", "COSTO_DIESEL", "LTS_ADBLUE_CONSUMIDOS", "PRECIO_ADBLUE",
	"COSTO_ADBLUE", "COMISION_CLIENTE", "COMISION_OPERADOR", "GASTOS_OPERADOR",
	"PEAJES_VIAPASS", "PEAJES_EFECTIVO", "TOTAL_PEAJES", "MANTTO_TRACTOS",
	"MANTTO_CAJAS", "RASTREO", "SEGURO", "LLANTAS", "ADMINISTRACION",
	"MARKETING", "COSTO_TOTAL", "UTILIDAD_BRUTA", "INGRESO_X_KM", "COSTO_X_KM",
	"UTILIDAD_X_KM",
}

// LedgerRow is one line of the costed trip ledger. Passthrough columns stay
// strings exactly as ingested; computed columns are typed. Pointer numerics
// distinguish "not measured" from zero until the final normalization pass.
type LedgerRow struct {
	TripNo        string
	Tractor       string // normalized "ECO <n>"
	TractorPlates string
	TrailerNo     string
	TrailerPlates string
	Operator      string
	Origin        string
	Destination   string
	Client        string
	Company       string
	CargoKilos    string
	AdrhOT        string

	LoadDate   *time.Time
	LoadTime   string // HH:MM:SS
	UnloadDate *time.Time
	UnloadTime string

	Repartos  string
	Maniobras string
	Estadias  string

	TripCost           string
	ClientCommission   string
	OperatorCommission string
	OperatorExpenses   string

	KmTraveled   *float64
	DieselLiters *float64
	DieselPrice  *float64
	DieselCost   *float64
	AdBlueLiters *float64

	TollsElectronic float64
	TollsCash       float64
	TollsTotal      float64

	MaintenanceTractor float64

	// Odometer at the end of the trip window; used for the maintenance
	// factor lookup, never exported.
	Odometer *float64

	IsEmptyLeg bool
}

// Values projects the row onto ColumnOrder for rendering. Dates come out as
// YYYY-MM-DD and times trimmed to HH:MM; nil numerics render empty.
func (r *LedgerRow) Values() []interface{} {
	return []interface{}{
		r.TripNo, r.Tractor, r.TractorPlates, r.TrailerNo, r.TrailerPlates,
		r.Operator, r.Origin, r.Destination, r.Client, r.Company, r.CargoKilos, r.AdrhOT,
		formatDate(r.LoadDate), formatClock(r.LoadTime), formatDate(r.UnloadDate), formatClock(r.UnloadTime),
		r.Repartos, r.Maniobras, r.Estadias, "", "", "",
		r.TripCost, floatCell(r.KmTraveled), floatCell(r.DieselLiters), "",
		floatCell(r.DieselPrice), floatCell(r.DieselCost), floatCell(r.AdBlueLiters), "",
		"", r.ClientCommission, r.OperatorCommission, r.OperatorExpenses,
		r.TollsElectronic, r.TollsCash, r.TollsTotal, r.MaintenanceTractor,
		"", "", "", "", "",
		"", "", "", "", "",
		"",
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
