package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rodrigoberna1996/api-scania/SharePoint"
)

// IngestionController triggers the list ingestion on demand
type IngestionController struct {
	Job *SharePoint.IngestionJob
}

// NewIngestionController creates a new IngestionController
func NewIngestionController(job *SharePoint.IngestionJob) *IngestionController {
	return &IngestionController{Job: job}
}

// PullData refreshes the trip and reassignment tables from the upstream
// lists and reports how many items landed.
func (c *IngestionController) PullData(ctx *fiber.Ctx) error {
	travelLogs, err := c.Job.UpdateTravelLogs(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	reassignments, err := c.Job.UpdateReassignments(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"travel_logs":   travelLogs,
		"reassignments": reassignments,
	})
}
