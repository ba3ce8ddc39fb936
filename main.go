package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/rodrigoberna1996/api-scania/Cache"
	"github.com/rodrigoberna1996/api-scania/Config"
	"github.com/rodrigoberna1996/api-scania/Controllers"
	"github.com/rodrigoberna1996/api-scania/CronJobs"
	"github.com/rodrigoberna1996/api-scania/FiberConfig"
	"github.com/rodrigoberna1996/api-scania/Models"
	"github.com/rodrigoberna1996/api-scania/Reporting"
	"github.com/rodrigoberna1996/api-scania/Scania"
	"github.com/rodrigoberna1996/api-scania/SharePoint"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	settings := Config.Load()

	rdb := Cache.NewRedis(settings.RedisURL)
	db := Models.Connect(settings.DBPath)

	scaniaAuth := Scania.NewAuthService(settings.ScaniaBaseURL, settings.ScaniaClientID,
		settings.ScaniaSecretKey, settings.TokenExpireSeconds, rdb)
	statuses := Scania.NewVehicleStatusClient(settings.ScaniaBaseURL, scaniaAuth)
	evaluations := Scania.NewEvaluationClient(settings.ScaniaBaseURL, scaniaAuth)
	resolver := Scania.NewVehicleResolver(settings.ScaniaBaseURL, scaniaAuth, rdb)
	history := Scania.NewHistoryService(statuses, evaluations)

	graphAuth := SharePoint.NewAuthClient(settings.SharePointTokenURL,
		settings.SharePointClientID, settings.SharePointClientSecret, rdb)
	graph := SharePoint.NewGraphClient(settings.GraphBaseURL, settings.DriveID,
		settings.CostsFolderID, graphAuth)
	ingestion := SharePoint.NewIngestionJob(graphAuth, settings.TravelLogListURL,
		settings.ReassignmentListURL, db)

	reports := Reporting.NewReportService(db, graph, resolver, history, settings.ReportTitle)

	refresher := CronJobs.NewTokenRefresher(scaniaAuth, graphAuth)
	if err := refresher.Start(); err != nil {
		log.Printf("Failed to start token refresher: %v", err)
	}

	FiberConfig.FiberConfig(settings.Port, FiberConfig.Handlers{
		Reports:   Controllers.NewReportController(reports),
		Vehicles:  Controllers.NewVehicleController(resolver, history),
		Ingestion: Controllers.NewIngestionController(ingestion),
	})
}
