package Config

import (
	"os"
	"strconv"
)

// Settings holds every external endpoint and credential the service talks to.
// Values come from the environment (optionally via a .env file loaded in main)
// and fall back to the production defaults.
type Settings struct {
	Port string

	// Scania rFMS / reports API
	ScaniaBaseURL      string
	ScaniaClientID     string
	ScaniaSecretKey    string
	TokenExpireSeconds int

	// Microsoft Graph / SharePoint
	SharePointTokenURL     string
	SharePointClientID     string
	SharePointClientSecret string
	GraphBaseURL           string
	DriveID                string
	CostsFolderID          string
	TravelLogListURL       string
	ReassignmentListURL    string

	RedisURL string
	DBPath   string

	ReportTitle string
}

func Load() Settings {
	return Settings{
		Port: getEnv("PORT", "8000"),

		ScaniaBaseURL:      getEnv("SCANIA_BASE_URL", "https://dataaccess.scania.com"),
		ScaniaClientID:     getEnv("SCANIA_CLIENT_ID", ""),
		ScaniaSecretKey:    getEnv("SCANIA_SECRET_KEY", ""),
		TokenExpireSeconds: getEnvInt("TOKEN_EXPIRE_SECONDS", 3600),

		SharePointTokenURL:     getEnv("SHAREPOINT_TOKEN_URL", "https://login.microsoftonline.com/206805c7-24a4-4581-9843-e227b0ee55b1/oauth2/v2.0/token"),
		SharePointClientID:     getEnv("SHAREPOINT_CLIENT_ID", ""),
		SharePointClientSecret: getEnv("SHAREPOINT_CLIENT_SECRET", ""),
		GraphBaseURL:           getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		DriveID:                getEnv("SHAREPOINT_DRIVE_ID", "b!o7HBJ3ipyEKwjcpneGiAzvmjvnw6bvxEivisl_xxW0D4hiM1LaJ1R6_tdoRCxYUe"),
		CostsFolderID:          getEnv("SHAREPOINT_COSTS_FOLDER_ID", "01USEHRLUQN5OQ4PLCZFEZTMUB2DIWLQLG"),
		TravelLogListURL:       getEnv("SHAREPOINT_TRAVEL_LOG_LIST_URL", ""),
		ReassignmentListURL:    getEnv("SHAREPOINT_REASSIGNMENT_LIST_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		DBPath:   getEnv("DB_PATH", "database.db"),

		ReportTitle: getEnv("REPORT_TITLE", "Análisis de Costos TR"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
