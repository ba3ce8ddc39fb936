package Reporting

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/rodrigoberna1996/api-scania/Models"
)

func tripLog(id int, title, eco, origin, destination, loadDate, loadTime, unloadDate, unloadTime string, extra map[string]interface{}) Models.TravelLog {
	fields := map[string]interface{}{
		"Title":       title,
		"field_1":     eco,
		"field_2":     "PLT-" + eco,
		"field_3":     "RMQ-" + eco,
		"field_4":     "OPERADOR " + eco,
		"ORIGEN_TAB":  origin,
		"DESTINO_TAB": destination,
		"field_6":     loadDate,
		"field_7":     loadTime,
		"field_16":    unloadDate,
		"field_17":    unloadTime,
		"field_8":     "CLIENTE",
		"field_9":     "EMPRESA",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return Models.TravelLog{ID: id, Fields: datatypes.JSONMap(fields)}
}

func TestBuildLedgerAttributesTollsToMatchingWindow(t *testing.T) {
	logs := []Models.TravelLog{
		tripLog(1, "T1", "ECO 10", "MTY", "CDMX", "01/05/2024", "08:00", "02/05/2024", "18:00", nil),
		tripLog(2, "T2", "ECO 10", "CDMX", "MTY", "05/05/2024", "09:00", "06/05/2024", "20:00", nil),
	}
	tolls := []Models.TollRecord{
		{EconomicNumber: "ECO 10", Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Amount: 116},
	}

	rows := BuildLedger(logs, nil, tolls)
	if len(rows) != 4 {
		t.Fatalf("expected 2 trips plus 2 empty legs, got %d rows", len(rows))
	}

	byTrip := map[string]LedgerRow{}
	for _, row := range rows {
		if !row.IsEmptyLeg {
			byTrip[row.TripNo] = row
		}
	}
	if got := byTrip["T1"].TollsElectronic; got != 100.00 {
		t.Errorf("expected 116 net of tax = 100.00 on T1, got %v", got)
	}
	if got := byTrip["T2"].TollsElectronic; got != 0 {
		t.Errorf("toll outside the T2 window must not attribute, got %v", got)
	}
}

func TestBuildLedgerSynthesizesEmptyLegPerTrip(t *testing.T) {
	logs := []Models.TravelLog{
		tripLog(1, "T1", "ECO 7", "MTY", "CDMX", "01/05/2024", "08:00", "02/05/2024", "18:00", nil),
		tripLog(2, "T2", "ECO 7", "GDL", "MTY", "05/05/2024", "09:00", "06/05/2024", "20:00", nil),
	}

	rows := BuildLedger(logs, nil, nil)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	// The empty leg ahead of T2 spans from T1's unload to T2's load and
	// bridges T1's destination to T2's origin.
	empty := rows[2]
	if !empty.IsEmptyLeg {
		t.Fatalf("expected row 2 to be the empty leg before T2")
	}
	if empty.Client != EmptyTripMarker || empty.Company != EmptyTripMarker {
		t.Errorf("empty leg must carry the empty-trip marker")
	}
	if empty.Origin != "CDMX" || empty.Destination != "GDL" {
		t.Errorf("empty leg must bridge CDMX to GDL, got %s to %s", empty.Origin, empty.Destination)
	}
	if empty.LoadDate == nil || empty.LoadDate.Day() != 2 {
		t.Errorf("empty leg must start at the previous unload date")
	}
	if empty.UnloadDate == nil || empty.UnloadDate.Day() != 5 {
		t.Errorf("empty leg must end at the trip load date")
	}
	if empty.CargoKilos != "0" {
		t.Errorf("empty leg carries no cargo, got %q", empty.CargoKilos)
	}
}

func TestSynthesizeEmptyLegsIgnoresUndatedPredecessors(t *testing.T) {
	logs := []Models.TravelLog{
		tripLog(1, "T1", "ECO 7", "MTY", "CDMX", "", "", "02/05/2024", "18:00", nil),
		tripLog(2, "T2", "ECO 7", "GDL", "MTY", "05/05/2024", "09:00", "06/05/2024", "20:00", nil),
	}

	rows := BuildLedger(logs, nil, nil)
	var empty *LedgerRow
	for i := range rows {
		if rows[i].IsEmptyLeg && rows[i].TripNo == "T2" {
			empty = &rows[i]
		}
	}
	if empty == nil {
		t.Fatal("expected an empty leg ahead of T2")
	}

	// The undated T1 row cannot anchor a window, so the empty leg degrades
	// to T2's own endpoints instead of bridging from T1.
	if empty.Origin != "GDL" || empty.Destination != "MTY" {
		t.Errorf("expected the degenerate GDL to MTY leg, got %s to %s", empty.Origin, empty.Destination)
	}
	if empty.LoadDate != nil {
		t.Errorf("an undated predecessor must not supply a load date")
	}
}

func TestBuildLedgerReassignmentTollWindows(t *testing.T) {
	lookup := func(title string) *Models.Reassignment {
		return &Models.Reassignment{Fields: datatypes.JSONMap{
			"Title":               title,
			"no_tracto":           "ECO 22",
			"placas_tracto":       "PLT-22",
			"operador":            "OPERADOR 22",
			"origen":              "QRO",
			"fecha_reasignacion":  "03/05/2024 10:30:00",
			"fecha_descarga_real": "04/05/2024 16:00:00",
		}}
	}
	logs := []Models.TravelLog{
		tripLog(1, "T1", "ECO 10", "MTY", "CDMX", "01/05/2024", "08:00", "02/05/2024", "18:00", map[string]interface{}{
			"REASIGNACION": true,
		}),
	}
	tolls := []Models.TollRecord{
		{EconomicNumber: "ECO 10", Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Amount: 116},
		{EconomicNumber: "ECO 22", Timestamp: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), Amount: 232},
	}

	rows := BuildLedger(logs, lookup, tolls)
	byUnit := map[string]LedgerRow{}
	for _, row := range rows {
		if !row.IsEmptyLeg {
			byUnit[row.Tractor] = row
		}
	}
	if len(byUnit) != 2 {
		t.Fatalf("expected the corrected trip and its duplicate, got %d real rows", len(byUnit))
	}

	// The corrected trip attributes tolls over the reassignment window with
	// the replacement unit; the duplicate over the original window and unit.
	if got := byUnit["ECO 22"].TollsElectronic; got != 200.00 {
		t.Errorf("expected 232 net of tax = 200.00 on the corrected trip, got %v", got)
	}
	if got := byUnit["ECO 10"].TollsElectronic; got != 100.00 {
		t.Errorf("expected 116 net of tax = 100.00 on the duplicate, got %v", got)
	}
}

func TestBuildLedgerFiltersNonNumericUnits(t *testing.T) {
	logs := []Models.TravelLog{
		tripLog(1, "T1", "ECO 7", "MTY", "CDMX", "01/05/2024", "08:00", "02/05/2024", "18:00", nil),
		tripLog(2, "T2", "PENDIENTE", "GDL", "MTY", "05/05/2024", "09:00", "06/05/2024", "20:00", nil),
	}

	rows := BuildLedger(logs, nil, nil)
	for _, row := range rows {
		if row.TripNo == "T2" {
			t.Errorf("rows without a numeric unit must be dropped")
		}
	}
}

func TestExpandRecordReassignmentOverlay(t *testing.T) {
	lookup := func(title string) *Models.Reassignment {
		if title != "T1" {
			return nil
		}
		return &Models.Reassignment{Fields: datatypes.JSONMap{
			"Title":               "T1",
			"no_tracto":           "ECO 22",
			"placas_tracto":       "PLT-22",
			"no_caja":             "CJ-22",
			"placas_caja":         "RMQ-22",
			"operador":            "OPERADOR 22",
			"origen":              "QRO",
			"fecha_reasignacion":  "03/05/2024 10:30:00",
			"fecha_descarga_real": "04/05/2024 16:00:00",
		}}
	}
	record := tripLog(1, "T1", "ECO 10", "MTY", "CDMX", "01/05/2024", "08:00", "02/05/2024", "18:00", map[string]interface{}{
		"REASIGNACION":      true,
		"field_15":          "45,000",
		"COMISION_CLIENTE":  "1,000",
		"COMISION_OPERADOR": "2,000",
		"GASTOS_OPERADOR":   "500",
		"PEAJES_EFECTIVO":   "232",
	})

	rows := expandRecord(record, lookup)
	if len(rows) != 2 {
		t.Fatalf("expected primary plus duplicate, got %d rows", len(rows))
	}
	primary, duplicate := rows[0], rows[1]

	if primary.Tractor != "ECO 22" || primary.Operator != "OPERADOR 22" {
		t.Errorf("primary row must carry the replacement unit and crew")
	}
	if primary.Origin != "QRO" {
		t.Errorf("primary origin must come from the overlay, got %s", primary.Origin)
	}
	if primary.Destination != "CDMX" {
		t.Errorf("destination is never overlaid, got %s", primary.Destination)
	}
	if primary.LoadDate == nil || primary.LoadDate.Day() != 3 || primary.LoadTime != "10:30:00" {
		t.Errorf("primary load must be the reassignment timestamp")
	}
	if primary.UnloadDate == nil || primary.UnloadDate.Day() != 4 {
		t.Errorf("primary unload must be the actual unload timestamp")
	}
	if primary.TripCost != "45,000" {
		t.Errorf("primary keeps the trip cost, got %q", primary.TripCost)
	}

	if duplicate.Tractor != "ECO 10" {
		t.Errorf("duplicate keeps the original unit, got %s", duplicate.Tractor)
	}
	if duplicate.LoadDate == nil || duplicate.LoadDate.Day() != 1 {
		t.Errorf("duplicate keeps the original window")
	}
	if duplicate.TripCost != "0" || duplicate.ClientCommission != "0" || duplicate.OperatorCommission != "0" {
		t.Errorf("duplicate must zero every cost column")
	}
	if duplicate.TollsCash != 0 {
		t.Errorf("duplicate must not carry cash tolls, got %v", duplicate.TollsCash)
	}
}

func TestNormalizeEco(t *testing.T) {
	cases := map[string]string{
		"ECO10":  "ECO 10",
		"ECO 10": "ECO 10",
		" 10 ":   "ECO 10",
	}
	for in, want := range cases {
		if got := NormalizeEco(in); got != want {
			t.Errorf("NormalizeEco(%q) = %q, want %q", in, got, want)
		}
	}
}
