package Scania

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	vehicleMapKey = "scania_vehicle_map"
	vehicleMapTTL = time.Hour
)

// VehicleResolver maps economic numbers to VINs using the rFMS vehicles
// endpoint, cached in Redis since the fleet roster changes rarely.
type VehicleResolver struct {
	baseURL string
	auth    *AuthService
	rdb     *redis.Client
	client  *http.Client
}

func NewVehicleResolver(baseURL string, auth *AuthService, rdb *redis.Client) *VehicleResolver {
	return &VehicleResolver{
		baseURL: baseURL,
		auth:    auth,
		rdb:     rdb,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// VehicleMap returns the economic-number → VIN map, from cache when fresh.
func (r *VehicleResolver) VehicleMap(ctx context.Context) (map[string]string, error) {
	if cached, err := r.rdb.Get(ctx, vehicleMapKey).Result(); err == nil && cached != "" {
		var m map[string]string
		if err := json.Unmarshal([]byte(cached), &m); err == nil {
			return m, nil
		}
		// Corrupt cache entry, fall through to the API.
	}

	vehicles, err := r.fetchVehicles(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		if v.CustomerVehicleName != "" && v.VIN != "" {
			m[v.CustomerVehicleName] = v.VIN
		}
	}

	if encoded, err := json.Marshal(m); err == nil {
		if err := r.rdb.Set(ctx, vehicleMapKey, encoded, vehicleMapTTL).Err(); err != nil {
			return m, nil
		}
	}
	return m, nil
}

type vehicleEntry struct {
	VIN                 string `json:"vin"`
	CustomerVehicleName string `json:"customerVehicleName"`
}

func (r *VehicleResolver) fetchVehicles(ctx context.Context) ([]vehicleEntry, error) {
	token, err := r.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/rfms4/vehicles", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json; rfms=vehicles.v4.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching vehicles: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vehicles request failed with status %d", resp.StatusCode)
	}

	var payload struct {
		VehicleResponse *struct {
			Vehicles []vehicleEntry `json:"vehicles"`
		} `json:"vehicleResponse"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing vehicles response: %w", err)
	}
	if payload.VehicleResponse == nil {
		return nil, fmt.Errorf("vehicles response missing vehicleResponse.vehicles")
	}
	return payload.VehicleResponse.Vehicles, nil
}
