package Controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rodrigoberna1996/api-scania/Reporting"
)

// VehicleController exposes per-vehicle telemetry lookups
type VehicleController struct {
	Resolver  Reporting.VehicleResolver
	Telemetry Reporting.TelemetryProvider
}

// NewVehicleController creates a new VehicleController
func NewVehicleController(resolver Reporting.VehicleResolver, telemetry Reporting.TelemetryProvider) *VehicleController {
	return &VehicleController{Resolver: resolver, Telemetry: telemetry}
}

// GetVehicleHistory aggregates telemetry for one unit over a window. The unit
// is addressed by its economic number; the VIN lookup happens server-side.
func (c *VehicleController) GetVehicleHistory(ctx *fiber.Ctx) error {
	eco := strings.TrimSpace(ctx.Query("economic_number"))
	if eco == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "economic_number is required"})
	}
	start, err := time.Parse(time.RFC3339, ctx.Query("starttime"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starttime must be RFC3339"})
	}
	stop, err := time.Parse(time.RFC3339, ctx.Query("stoptime"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stoptime must be RFC3339"})
	}

	vinMap, err := c.Resolver.VehicleMap(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to resolve vehicle map"})
	}
	vin, ok := vinMap[strings.TrimSpace(strings.TrimPrefix(eco, "ECO"))]
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown economic number"})
	}

	history, err := c.Telemetry.VehicleHistory(ctx.Context(), vin, start, stop)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(history)
}
