package Models

import "time"

// TollRecord is one tax-inclusive toll transaction attributed to a unit.
type TollRecord struct {
	EconomicNumber string
	Timestamp      time.Time
	Amount         float64
}

// DieselPriceEntry is one dated diesel price. Price is pre-tax (the source
// workbook carries the taxed price, divided out during parsing).
type DieselPriceEntry struct {
	Date  time.Time
	Price float64
}

// MaintenanceFactor maps an inclusive odometer range to a cost-per-km factor.
type MaintenanceFactor struct {
	RangeLow  float64
	RangeHigh float64
	Factor    float64
}
