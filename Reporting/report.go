package Reporting

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/rodrigoberna1996/api-scania/Models"
	"github.com/rodrigoberna1996/api-scania/Scania"
)

const (
	telemetryConcurrency = 3
	telemetryTimeout     = 20 * time.Second
)

// ReferenceData supplies the three costing datasets for one report run.
type ReferenceData interface {
	Tolls(ctx context.Context) ([]Models.TollRecord, error)
	DieselPrices(ctx context.Context) ([]Models.DieselPriceEntry, error)
	MaintenanceFactors(ctx context.Context) ([]Models.MaintenanceFactor, error)
}

// VehicleResolver maps economic numbers (without the ECO prefix) to VINs.
type VehicleResolver interface {
	VehicleMap(ctx context.Context) (map[string]string, error)
}

// TelemetryProvider aggregates samples for one VIN and window.
type TelemetryProvider interface {
	VehicleHistory(ctx context.Context, vin string, start, stop time.Time) (*Scania.VehicleHistory, error)
}

// ReportService assembles the monthly cost report end to end.
type ReportService struct {
	DB        *gorm.DB
	Reference ReferenceData
	Resolver  VehicleResolver
	Telemetry TelemetryProvider
	Title     string
}

func NewReportService(db *gorm.DB, reference ReferenceData, resolver VehicleResolver, telemetry TelemetryProvider, title string) *ReportService {
	return &ReportService{
		DB:        db,
		Reference: reference,
		Resolver:  resolver,
		Telemetry: telemetry,
		Title:     title,
	}
}

// GenerateMonthlyReport builds the spreadsheet for one calendar month and
// returns the file bytes plus the attachment filename.
func (s *ReportService) GenerateMonthlyReport(ctx context.Context, month time.Month) ([]byte, string, error) {
	logs, err := Models.GetFilteredLogs(s.DB)
	if err != nil {
		return nil, "", err
	}

	tolls, err := s.Reference.Tolls(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading tolls: %w", err)
	}
	diesel, err := s.Reference.DieselPrices(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading diesel prices: %w", err)
	}
	factors, err := s.Reference.MaintenanceFactors(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading maintenance factors: %w", err)
	}

	lookup := func(title string) *Models.Reassignment {
		reas, err := Models.GetReassignmentByTitle(s.DB, title)
		if err != nil {
			log.Printf("Reassignment lookup failed for %s: %v", title, err)
			return nil
		}
		return reas
	}

	ledger := BuildLedger(logs, lookup, tolls)
	export := FilterMonth(ledger, month)

	vinMap, err := s.Resolver.VehicleMap(ctx)
	if err != nil {
		// Telemetry is best-effort: without the map every row degrades to
		// empty metrics but the report still ships.
		log.Printf("Vehicle map unavailable, report degrades to no telemetry: %v", err)
		vinMap = nil
	}

	export = s.mergeTelemetry(ctx, export, vinMap)
	export = normalizeMetrics(export)
	export = EnrichCosts(export, tolls, diesel, factors)

	sort.SliceStable(export, func(i, j int) bool {
		return lessByLoadNilLast(export[i], export[j])
	})

	content, err := RenderWorkbook(export)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s - %s.xlsx", s.Title, MonthName(month))
	return content, filename, nil
}

// FilterMonth keeps the rows whose load date falls in the requested month.
func FilterMonth(rows []LedgerRow, month time.Month) []LedgerRow {
	var out []LedgerRow
	for _, row := range rows {
		if row.LoadDate != nil && row.LoadDate.Month() == month {
			out = append(out, row)
		}
	}
	return out
}

type telemetryKey struct {
	vin   string
	start time.Time
	stop  time.Time
}

// mergeTelemetry fetches one aggregation per distinct (vin, window) pair
// under the admission limit and merges the summaries back by row index, so
// completion order never changes row order. Duplicate pairs share one fetch.
func (s *ReportService) mergeTelemetry(ctx context.Context, rows []LedgerRow, vinMap map[string]string) []LedgerRow {
	out := make([]LedgerRow, len(rows))
	copy(out, rows)

	rowKeys := make(map[int]telemetryKey, len(out))
	keyRows := make(map[telemetryKey][]int)
	for i := range out {
		eco := strings.TrimSpace(strings.TrimPrefix(out[i].Tractor, "ECO"))
		vin := vinMap[eco]
		start := Models.CombineDateTimeOrMidnight(out[i].LoadDate, out[i].LoadTime)
		stop := Models.CombineDateTimeOrMidnight(out[i].UnloadDate, out[i].UnloadTime)
		if vin == "" || start == nil || stop == nil {
			continue
		}
		key := telemetryKey{vin: vin, start: *start, stop: *stop}
		rowKeys[i] = key
		keyRows[key] = append(keyRows[key], i)
	}

	cache := make(map[telemetryKey]*Scania.Summary, len(keyRows))
	var cacheMu sync.Mutex

	sem := make(chan struct{}, telemetryConcurrency)
	var wg sync.WaitGroup

	for key := range keyRows {
		wg.Add(1)
		go func(key telemetryKey) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, telemetryTimeout)
			defer cancel()

			var summary *Scania.Summary
			history, err := s.Telemetry.VehicleHistory(fetchCtx, key.vin, key.start, key.stop)
			if err != nil {
				log.Printf("Telemetry fetch failed for %s %s / %s: %v", key.vin, key.start.Format(time.RFC3339), key.stop.Format(time.RFC3339), err)
			} else if history != nil {
				summary = history.Summary
			}

			cacheMu.Lock()
			cache[key] = summary
			cacheMu.Unlock()
		}(key)
	}
	wg.Wait()

	for i := range out {
		key, ok := rowKeys[i]
		if !ok || cache[key] == nil {
			continue
		}
		sm := cache[key]
		km := math.Round(sm.KmTraveled)
		dieselL := math.Round(sm.DieselLiters)
		adblue := round2(sm.AdBlueLiters)
		odo := math.Round(sm.Odometer)
		out[i].KmTraveled = &km
		out[i].DieselLiters = &dieselL
		out[i].AdBlueLiters = &adblue
		out[i].Odometer = &odo
	}
	return out
}

// normalizeMetrics fills unmeasured metric columns with zero so the export
// never carries holes in numeric columns.
func normalizeMetrics(rows []LedgerRow) []LedgerRow {
	out := make([]LedgerRow, len(rows))
	copy(out, rows)
	zero := 0.0
	for i := range out {
		if out[i].KmTraveled == nil {
			v := zero
			out[i].KmTraveled = &v
		}
		if out[i].DieselLiters == nil {
			v := zero
			out[i].DieselLiters = &v
		}
		if out[i].AdBlueLiters == nil {
			v := zero
			out[i].AdBlueLiters = &v
		}
	}
	return out
}

// lessByLoadNilLast orders the export chronologically; rows without a load
// date sink to the bottom.
func lessByLoadNilLast(a, b LedgerRow) bool {
	switch {
	case a.LoadDate == nil && b.LoadDate == nil:
		return false
	case a.LoadDate == nil:
		return false
	case b.LoadDate == nil:
		return true
	}
	if !a.LoadDate.Equal(*b.LoadDate) {
		return a.LoadDate.Before(*b.LoadDate)
	}
	return a.LoadTime < b.LoadTime
}
