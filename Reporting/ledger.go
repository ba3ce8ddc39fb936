package Reporting

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rodrigoberna1996/api-scania/Models"
)

// ReassignmentLookup fetches the single reassignment overlay for a trip
// title, nil when there is none.
type ReassignmentLookup func(title string) *Models.Reassignment

// BuildLedger turns the raw trip records into the ordered cost ledger:
// reassignment overlays (plus the displaced zero-cost duplicate), canonical
// column mapping, toll attribution, and one synthesized empty leg in front
// of every real trip.
func BuildLedger(logs []Models.TravelLog, lookup ReassignmentLookup, tolls []Models.TollRecord) []LedgerRow {
	var rows []LedgerRow
	for _, record := range logs {
		rows = append(rows, expandRecord(record, lookup)...)
	}

	// Rows whose unit carries no numeric suffix are data-entry noise and
	// never belong to a tractor.
	filtered := rows[:0]
	for _, row := range rows {
		if _, ok := ecoNumber(row.Tractor); ok {
			filtered = append(filtered, row)
		}
	}
	rows = filtered

	for i := range rows {
		attributeTolls(&rows[i], tolls)
	}

	return synthesizeEmptyLegs(rows)
}

// expandRecord maps one raw record onto ledger rows: the trip itself, plus
// the displaced duplicate when a reassignment applies.
func expandRecord(record Models.TravelLog, lookup ReassignmentLookup) []LedgerRow {
	f := map[string]interface{}(record.Fields)
	title := Models.FieldString(f, "Title")

	row := LedgerRow{
		TripNo:        title,
		Tractor:       NormalizeEco(Models.FieldString(f, "field_1")),
		TractorPlates: Models.FieldString(f, "field_2"),
		TrailerNo:     Models.FieldString(f, "NO_REMOLQUE"),
		TrailerPlates: Models.FieldString(f, "field_3"),
		Operator:      Models.FieldString(f, "field_4"),
		Origin:        Models.FieldString(f, "ORIGEN_TAB"),
		Destination:   Models.FieldString(f, "DESTINO_TAB"),
		Client:        Models.FieldString(f, "field_8"),
		Company:       Models.FieldString(f, "field_9"),
		CargoKilos:    Models.FieldString(f, "CARGA_KILOS"),
		AdrhOT:        Models.FieldString(f, "field_22"),

		LoadDate:   Models.ParseDayFirstDate(Models.FieldString(f, "field_6")),
		LoadTime:   Models.NormalizeClock(Models.FieldString(f, "field_7")),
		UnloadDate: Models.ParseDayFirstDate(Models.FieldString(f, "field_16")),
		UnloadTime: Models.NormalizeClock(Models.FieldString(f, "field_17")),

		Repartos:  Models.FieldString(f, "REPARTOS1"),
		Maniobras: Models.FieldString(f, "field_19"),
		Estadias:  Models.FieldString(f, "field_20"),

		TripCost:           Models.FieldString(f, "field_15"),
		ClientCommission:   Models.FieldString(f, "COMISION_CLIENTE"),
		OperatorCommission: Models.FieldString(f, "COMISION_OPERADOR"),
		OperatorExpenses:   Models.FieldString(f, "GASTOS_OPERADOR"),

		TollsCash: Models.FieldFloat(f, "PEAJES_EFECTIVO"),
	}

	if !Models.FieldBool(f, "REASIGNACION") || lookup == nil {
		return []LedgerRow{row}
	}
	reas := lookup(title)
	if reas == nil {
		return []LedgerRow{row}
	}
	rf := map[string]interface{}(reas.Fields)

	// The displaced leg keeps the original unit and window but must not
	// count costs twice.
	duplicate := row
	duplicate.TripCost = "0"
	duplicate.ClientCommission = "0"
	duplicate.OperatorCommission = "0"
	duplicate.OperatorExpenses = "0"
	duplicate.TollsCash = 0

	// The primary row becomes the corrected trip: replacement crew and unit,
	// reassignment timestamp as its load time. Destination and title are
	// never overlaid.
	row.Tractor = NormalizeEco(Models.FieldString(rf, "no_tracto"))
	row.TractorPlates = Models.FieldString(rf, "placas_tracto")
	row.TrailerNo = Models.FieldString(rf, "no_caja")
	row.TrailerPlates = Models.FieldString(rf, "placas_caja")
	row.Operator = Models.FieldString(rf, "operador")
	row.Origin = Models.FieldString(rf, "origen")

	if ts := Models.ParseDayFirstDate(Models.FieldString(rf, "fecha_reasignacion")); ts != nil {
		row.LoadDate = dateOnly(*ts)
		row.LoadTime = ts.Format("15:04:05")
	}
	if ts := Models.ParseDayFirstDate(Models.FieldString(rf, "fecha_descarga_real")); ts != nil {
		row.UnloadDate = dateOnly(*ts)
		row.UnloadTime = ts.Format("15:04:05")
	}

	return []LedgerRow{row, duplicate}
}

// attributeTolls sums the unit's toll transactions inside the row's load
// window and nets out the tax factor.
func attributeTolls(row *LedgerRow, tolls []Models.TollRecord) {
	start := Models.CombineDateTime(row.LoadDate, row.LoadTime)
	stop := Models.CombineDateTime(row.UnloadDate, row.UnloadTime)

	row.TollsElectronic = round2(SumTollsInWindow(tolls, row.Tractor, start, stop) / taxFactor)
	row.TollsCash = round2(row.TollsCash / taxFactor)
	row.TollsTotal = round2(row.TollsElectronic + row.TollsCash)
}

// synthesizeEmptyLegs orders the ledger per unit and inserts one empty
// movement before every real trip, spanning from the previous trip's unload
// to this trip's load.
func synthesizeEmptyLegs(rows []LedgerRow) []LedgerRow {
	ordered := make([]LedgerRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Tractor != ordered[j].Tractor {
			return ordered[i].Tractor < ordered[j].Tractor
		}
		return lessByLoad(ordered[i], ordered[j])
	})

	out := make([]LedgerRow, 0, len(ordered)*2)
	for idx, trip := range ordered {
		prev := previousTrip(ordered, idx)

		empty := LedgerRow{
			TripNo:     trip.TripNo,
			Client:     EmptyTripMarker,
			Company:    EmptyTripMarker,
			CargoKilos: "0",
			UnloadDate: trip.LoadDate,
			UnloadTime: trip.LoadTime,
			IsEmptyLeg: true,
		}
		if prev != nil {
			empty.Tractor = prev.Tractor
			empty.TractorPlates = prev.TractorPlates
			empty.TrailerNo = prev.TrailerNo
			empty.TrailerPlates = prev.TrailerPlates
			empty.Operator = prev.Operator
			empty.Origin = prev.Destination
			empty.Destination = trip.Origin
			empty.LoadDate = prev.UnloadDate
			empty.LoadTime = prev.UnloadTime
		} else {
			// No history for this unit: the empty leg degenerates to the
			// trip's own endpoints with no load window of its own.
			empty.Tractor = trip.Tractor
			empty.TractorPlates = trip.TractorPlates
			empty.TrailerNo = trip.TrailerNo
			empty.TrailerPlates = trip.TrailerPlates
			empty.Operator = trip.Operator
			empty.Origin = trip.Origin
			empty.Destination = trip.Destination
		}

		out = append(out, empty, trip)
	}
	return out
}

// previousTrip finds the latest trip of the same unit strictly before the
// one at idx, over the unit's full history. Rows without a load date cannot
// anchor a window and are never predecessors.
func previousTrip(ordered []LedgerRow, idx int) *LedgerRow {
	trip := ordered[idx]
	var prev *LedgerRow
	for i := range ordered {
		if i == idx || ordered[i].Tractor != trip.Tractor || ordered[i].LoadDate == nil {
			continue
		}
		if !lessByLoad(ordered[i], trip) {
			continue
		}
		if prev == nil || lessByLoad(*prev, ordered[i]) {
			prev = &ordered[i]
		}
	}
	return prev
}

// lessByLoad orders rows chronologically by load date then load time; rows
// without a load date sort first.
func lessByLoad(a, b LedgerRow) bool {
	switch {
	case a.LoadDate == nil && b.LoadDate == nil:
		return a.LoadTime < b.LoadTime
	case a.LoadDate == nil:
		return true
	case b.LoadDate == nil:
		return false
	}
	if !a.LoadDate.Equal(*b.LoadDate) {
		return a.LoadDate.Before(*b.LoadDate)
	}
	return a.LoadTime < b.LoadTime
}

// NormalizeEco canonicalizes a unit identifier to "ECO <n>".
func NormalizeEco(raw string) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "ECO", ""))
	return "ECO " + s
}

// ecoNumber extracts the numeric suffix of a normalized unit identifier.
func ecoNumber(tractor string) (int, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(tractor, "ECO"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
