package Scania

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// VehicleStatus is one raw rFMS status sample.
type VehicleStatus struct {
	CreatedDateTime        string        `json:"createdDateTime"`
	HrTotalVehicleDistance *float64      `json:"hrTotalVehicleDistance"`
	EngineTotalFuelUsed    *float64      `json:"engineTotalFuelUsed"`
	SnapshotData           *SnapshotData `json:"snapshotData"`
}

type SnapshotData struct {
	// Level of the AdBlue tank. Depending on the ECU this arrives as a
	// percentage or directly in liters.
	CatalystFuelLevel *float64 `json:"catalystFuelLevel"`
}

type vehicleStatusPage struct {
	VehicleStatusResponse struct {
		VehicleStatuses []VehicleStatus `json:"vehicleStatuses"`
	} `json:"vehicleStatusResponse"`
	MoreDataAvailable     bool   `json:"moreDataAvailable"`
	MoreDataAvailableLink string `json:"moreDataAvailableLink"`
}

// VehicleStatusClient fetches rFMS vehicle status samples, following the
// continuation link until the window is exhausted.
type VehicleStatusClient struct {
	baseURL string
	auth    *AuthService
	client  *http.Client
}

func NewVehicleStatusClient(baseURL string, auth *AuthService) *VehicleStatusClient {
	return &VehicleStatusClient{
		baseURL: baseURL,
		auth:    auth,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *VehicleStatusClient) GetVehicleStatuses(ctx context.Context, vin string, start, stop time.Time) ([]VehicleStatus, error) {
	token, err := c.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"vin":           {vin},
		"starttime":     {start.UTC().Format("2006-01-02T15:04:05Z")},
		"stoptime":      {stop.UTC().Format("2006-01-02T15:04:05Z")},
		"contentFilter": {"HEADER,SNAPSHOT,ACCUMULATED"},
		"latestOnly":    {"false"},
	}

	var all []VehicleStatus
	nextURL := c.baseURL + "/rfms4/vehiclestatuses?" + params.Encode()

	for nextURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, nextURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json; rfms=vehiclestatuses.v4.0")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching vehicle statuses for %s: %w", vin, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("vehicle statuses for %s failed with status %d", vin, resp.StatusCode)
		}

		var page vehicleStatusPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing vehicle statuses for %s: %w", vin, err)
		}
		all = append(all, page.VehicleStatusResponse.VehicleStatuses...)

		nextURL = ""
		if page.MoreDataAvailable && page.MoreDataAvailableLink != "" {
			nextURL = c.resolveLink(page.MoreDataAvailableLink)
		}
	}

	return all, nil
}

// resolveLink normalizes the continuation link, which the API returns either
// absolute or relative to the host (and sometimes already carrying /rfms4).
func (c *VehicleStatusClient) resolveLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return link
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	base.Path = ""
	return base.ResolveReference(parsed).String()
}

// Evaluation is the provider-computed summary for a VIN over a date range.
// When present it supersedes distance/fuel deltas derived from raw samples.
type Evaluation struct {
	Distance             *float64
	TotalFuelConsumption *float64
}

type evaluationReport struct {
	VehicleList        []evaluationVehicle `json:"VehicleList"`
	EvaluationVehicles []evaluationVehicle `json:"EvaluationVehicles"`
}

type evaluationVehicle struct {
	Distance             interface{} `json:"Distance"`
	TotalFuelConsumption interface{} `json:"TotalFuelConsumption"`
}

// EvaluationClient queries the VehicleEvaluationReport endpoint.
type EvaluationClient struct {
	baseURL string
	auth    *AuthService
	client  *http.Client
}

func NewEvaluationClient(baseURL string, auth *AuthService) *EvaluationClient {
	return &EvaluationClient{
		baseURL: baseURL,
		auth:    auth,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *EvaluationClient) GetEvaluation(ctx context.Context, vin string, start, stop time.Time) (*Evaluation, error) {
	token, err := c.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"vinOfInterest": {vin},
		"startDate":     {start.UTC().Format("200601021504")},
		"endDate":       {stop.UTC().Format("200601021504")},
	}
	reqURL := c.baseURL + "/cs/vehicle/reports/VehicleEvaluationReport/v2?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching evaluation for %s: %w", vin, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evaluation for %s failed with status %d", vin, resp.StatusCode)
	}

	var report evaluationReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("parsing evaluation for %s: %w", vin, err)
	}

	vehicles := report.VehicleList
	if len(vehicles) == 0 {
		vehicles = report.EvaluationVehicles
	}
	if len(vehicles) == 0 {
		return &Evaluation{}, nil
	}

	ev := vehicles[0]
	return &Evaluation{
		Distance:             asFloat(ev.Distance),
		TotalFuelConsumption: asFloat(ev.TotalFuelConsumption),
	}, nil
}

// asFloat coerces a report value that the API serves as a number or a string.
func asFloat(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
