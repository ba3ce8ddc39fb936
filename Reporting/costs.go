package Reporting

import (
	"math"
	"time"

	"github.com/rodrigoberna1996/api-scania/Models"
)

// taxFactor nets IVA out of taxed amounts (tolls, pump diesel prices).
const taxFactor = 1.16

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dateOnly(t time.Time) *time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// SumTollsInWindow totals the unit's toll transactions whose timestamp falls
// inside [start, stop], inclusive. An open window attributes nothing.
func SumTollsInWindow(tolls []Models.TollRecord, tractor string, start, stop *time.Time) float64 {
	if start == nil || stop == nil {
		return 0
	}
	total := 0.0
	for _, toll := range tolls {
		if toll.EconomicNumber != tractor {
			continue
		}
		if toll.Timestamp.Before(*start) || toll.Timestamp.After(*stop) {
			continue
		}
		total += toll.Amount
	}
	return total
}

// DieselPriceAt returns the pre-tax diesel price in effect on a date: the
// entry with the greatest effective date not after it. Nil when no entry
// qualifies or the date is unknown. Entries must be sorted by date.
func DieselPriceAt(entries []Models.DieselPriceEntry, date *time.Time) *float64 {
	if date == nil {
		return nil
	}
	day := *dateOnly(*date)
	var price *float64
	for i := range entries {
		if entries[i].Date.After(day) {
			break
		}
		price = &entries[i].Price
	}
	return price
}

// FactorForOdometer picks the maintenance factor whose odometer range
// contains the reading, both ends inclusive. Unknown odometer or no match
// yields 0.
func FactorForOdometer(factors []Models.MaintenanceFactor, odometer *float64) float64 {
	if odometer == nil {
		return 0
	}
	for _, f := range factors {
		if f.RangeLow <= *odometer && *odometer <= f.RangeHigh {
			return f.Factor
		}
	}
	return 0
}

// EnrichCosts fills the telemetry-dependent cost columns and recomputes
// tolls for the synthesized empty legs, whose window differs from their
// template trip. Returns a new slice; the input is not mutated.
func EnrichCosts(rows []LedgerRow, tolls []Models.TollRecord, diesel []Models.DieselPriceEntry, factors []Models.MaintenanceFactor) []LedgerRow {
	out := make([]LedgerRow, len(rows))
	copy(out, rows)

	for i := range out {
		row := &out[i]

		if row.IsEmptyLeg {
			start := Models.CombineDateTime(row.LoadDate, row.LoadTime)
			stop := Models.CombineDateTime(row.UnloadDate, row.UnloadTime)
			row.TollsElectronic = round2(SumTollsInWindow(tolls, row.Tractor, start, stop) / taxFactor)
		}
		row.TollsTotal = round2(row.TollsElectronic + row.TollsCash)

		row.DieselPrice = DieselPriceAt(diesel, row.LoadDate)
		if row.DieselPrice != nil && row.DieselLiters != nil {
			cost := round2(*row.DieselLiters * *row.DieselPrice)
			row.DieselCost = &cost
		} else {
			row.DieselCost = nil
		}

		km := 0.0
		if row.KmTraveled != nil {
			km = *row.KmTraveled
		}
		row.MaintenanceTractor = round2(FactorForOdometer(factors, row.Odometer) * km)
	}
	return out
}
