package Scania

import (
	"context"
	"math"
	"sort"
	"time"
)

const (
	// TankCapacityLiters is the fixed AdBlue tank capacity used to convert
	// percentage gauge readings into liters.
	TankCapacityLiters = 105.0

	// segmentLength caps one vehiclestatuses request window. Longer trip
	// windows are fetched in consecutive segments.
	segmentLength = 5 * 24 * time.Hour
)

// HistoricalSample is one normalized telemetry reading for a vehicle.
type HistoricalSample struct {
	VIN          string    `json:"vin"`
	Timestamp    time.Time `json:"timestamp"`
	KmTraveled   float64   `json:"km_recorridos"`
	DieselLiters *float64  `json:"consumo_lts_diesel"`
	AdBlueLevel  *float64  `json:"lts_adblue_consumidos"`
}

// Summary aggregates one trip window: distance and fuel from the sample
// deltas (or the evaluation report when available), AdBlue always from the
// gauge algorithm.
type Summary struct {
	VIN            string    `json:"vin"`
	StartTimestamp time.Time `json:"start_timestamp"`
	EndTimestamp   time.Time `json:"end_timestamp"`
	KmTraveled     float64   `json:"km_recorridos"`
	DieselLiters   float64   `json:"consumo_lts_diesel"`
	AdBlueLiters   float64   `json:"lts_adblue_consumidos"`
	Odometer       float64   `json:"odometro"`
}

// VehicleHistory is the aggregator output for one VIN and window.
type VehicleHistory struct {
	HistoricalData []HistoricalSample `json:"historical_data"`
	Summary        *Summary           `json:"summary"`
}

// StatusFetcher and EvaluationFetcher are the two provider calls the
// aggregator needs; the concrete clients satisfy them and tests fake them.
type StatusFetcher interface {
	GetVehicleStatuses(ctx context.Context, vin string, start, stop time.Time) ([]VehicleStatus, error)
}

type EvaluationFetcher interface {
	GetEvaluation(ctx context.Context, vin string, start, stop time.Time) (*Evaluation, error)
}

// HistoryService turns raw provider samples into per-window consumption
// figures.
type HistoryService struct {
	Statuses    StatusFetcher
	Evaluations EvaluationFetcher
}

func NewHistoryService(statuses StatusFetcher, evaluations EvaluationFetcher) *HistoryService {
	return &HistoryService{Statuses: statuses, Evaluations: evaluations}
}

// Window is one fetch segment.
type Window struct {
	Start time.Time
	Stop  time.Time
}

// SegmentWindow splits [start, stop] into consecutive segments no longer
// than seg, contiguous and covering the full range.
func SegmentWindow(start, stop time.Time, seg time.Duration) []Window {
	if !start.Before(stop) {
		return []Window{{Start: start, Stop: stop}}
	}
	var windows []Window
	for cursor := start; cursor.Before(stop); {
		next := cursor.Add(seg)
		if next.After(stop) {
			next = stop
		}
		windows = append(windows, Window{Start: cursor, Stop: next})
		cursor = next
	}
	return windows
}

// GaugeToLiters converts a raw catalyst gauge value into liters. Values up
// to 100 are taken as a percentage of the tank capacity, anything above is
// assumed to already be liters. The threshold is a heuristic inherited from
// the ECU behavior; keep it here so the consumption algorithm never sees
// raw units.
func GaugeToLiters(raw float64) float64 {
	if raw <= 100 {
		return raw * TankCapacityLiters / 100
	}
	return raw
}

// GaugeReading is one timestamped AdBlue gauge value; nil means the sample
// carried no reading.
type GaugeReading struct {
	Timestamp time.Time
	Level     *float64
}

// ConsumedAdBlue sums the level drops across the reading series. A rise is
// a refill and only moves the baseline; a missing reading breaks continuity
// so the next drop is measured from scratch.
func ConsumedAdBlue(readings []GaugeReading) float64 {
	sorted := make([]GaugeReading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	consumed := 0.0
	var previous *float64
	for _, r := range sorted {
		if r.Level == nil {
			previous = nil
			continue
		}
		level := GaugeToLiters(*r.Level)
		if previous != nil && level < *previous {
			consumed += *previous - level
		}
		previous = &level
	}
	return math.Round(consumed*100) / 100
}

// VehicleHistory fetches and aggregates the telemetry for one VIN over
// [start, stop].
func (s *HistoryService) VehicleHistory(ctx context.Context, vin string, start, stop time.Time) (*VehicleHistory, error) {
	var statuses []VehicleStatus
	for _, w := range SegmentWindow(start, stop, segmentLength) {
		segment, err := s.Statuses.GetVehicleStatuses(ctx, vin, w.Start, w.Stop)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, segment...)
	}

	samples := make([]HistoricalSample, 0, len(statuses))
	readings := make([]GaugeReading, 0, len(statuses))
	for _, st := range statuses {
		if st.CreatedDateTime == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, st.CreatedDateTime)
		if err != nil {
			continue
		}

		km := 0.0
		if st.HrTotalVehicleDistance != nil {
			km = *st.HrTotalVehicleDistance / 1000.0
		}
		var diesel *float64
		if st.EngineTotalFuelUsed != nil {
			liters := *st.EngineTotalFuelUsed / 1000.0
			diesel = &liters
		}
		var adblue *float64
		if st.SnapshotData != nil && st.SnapshotData.CatalystFuelLevel != nil {
			adblue = st.SnapshotData.CatalystFuelLevel
		}

		readings = append(readings, GaugeReading{Timestamp: ts, Level: adblue})
		samples = append(samples, HistoricalSample{
			VIN:          vin,
			Timestamp:    ts,
			KmTraveled:   km,
			DieselLiters: diesel,
			AdBlueLevel:  adblue,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	adblueConsumed := ConsumedAdBlue(readings)
	evaluation := s.fetchEvaluation(ctx, vin, start, stop)

	history := &VehicleHistory{HistoricalData: samples}

	if len(samples) >= 2 {
		first, last := samples[0], samples[len(samples)-1]

		km := last.KmTraveled - first.KmTraveled
		if evaluation != nil && evaluation.Distance != nil {
			km = *evaluation.Distance
		}
		diesel := floatOrZero(last.DieselLiters) - floatOrZero(first.DieselLiters)
		if evaluation != nil && evaluation.TotalFuelConsumption != nil {
			diesel = *evaluation.TotalFuelConsumption
		}

		history.Summary = &Summary{
			VIN:            vin,
			StartTimestamp: first.Timestamp,
			EndTimestamp:   last.Timestamp,
			KmTraveled:     km,
			DieselLiters:   diesel,
			AdBlueLiters:   adblueConsumed,
			Odometer:       last.KmTraveled,
		}
	} else if evaluation != nil && (evaluation.Distance != nil || evaluation.TotalFuelConsumption != nil) {
		// Not enough raw samples for deltas, but the evaluation report can
		// still produce a summary using the nominal window bounds.
		km := 0.0
		if evaluation.Distance != nil {
			km = *evaluation.Distance
		}
		diesel := 0.0
		if evaluation.TotalFuelConsumption != nil {
			diesel = *evaluation.TotalFuelConsumption
		}
		history.Summary = &Summary{
			VIN:            vin,
			StartTimestamp: start,
			EndTimestamp:   stop,
			KmTraveled:     km,
			DieselLiters:   diesel,
			AdBlueLiters:   adblueConsumed,
			Odometer:       km,
		}
	}

	return history, nil
}

// fetchEvaluation is best-effort: the report works without it, so failures
// only drop the override.
func (s *HistoryService) fetchEvaluation(ctx context.Context, vin string, start, stop time.Time) *Evaluation {
	if s.Evaluations == nil {
		return nil
	}
	evaluation, err := s.Evaluations.GetEvaluation(ctx, vin, start, stop)
	if err != nil {
		return nil
	}
	return evaluation
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
