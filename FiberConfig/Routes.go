package FiberConfig

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/rodrigoberna1996/api-scania/Controllers"
	"github.com/rodrigoberna1996/api-scania/middleware"
)

// Handlers bundles the controllers the router wires up.
type Handlers struct {
	Reports   *Controllers.ReportController
	Vehicles  *Controllers.VehicleController
	Ingestion *Controllers.IngestionController
}

func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/report", h.Reports.GetMonthlyReport)
	api.Get("/vehicles/history", h.Vehicles.GetVehicleHistory)
	api.Get("/pull/data", h.Ingestion.PullData)
}

func FiberConfig(port string, h Handlers) {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       300, // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, h)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
