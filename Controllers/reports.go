package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rodrigoberna1996/api-scania/Reporting"
)

// ReportController exposes the monthly cost report endpoint
type ReportController struct {
	Service *Reporting.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(service *Reporting.ReportService) *ReportController {
	return &ReportController{Service: service}
}

// GetMonthlyReport builds the cost spreadsheet for the requested month and
// streams it back as an attachment. Defaults to the current month.
func (c *ReportController) GetMonthlyReport(ctx *fiber.Ctx) error {
	month := ctx.QueryInt("month", int(time.Now().Month()))
	if month < 1 || month > 12 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "month must be between 1 and 12",
		})
	}

	content, filename, err := c.Service.GenerateMonthlyReport(ctx.Context(), time.Month(month))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to generate report: %v", err),
		})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(content)
}
