package Models

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the record store and migrates the ingested document tables.
func Connect(dbPath string) *gorm.DB {
	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", dbPath, err)
	}
	DB = connection

	if err := DB.AutoMigrate(
		&TravelLog{},
		&Reassignment{},
	); err != nil {
		log.Println(err)
	}

	return DB
}
