package Models

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&TravelLog{}, &Reassignment{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func eligibleFields(year interface{}) datatypes.JSONMap {
	return datatypes.JSONMap{
		"Title":        "T1",
		"field_6":      "01/05/2024",
		"field_16":     "02/05/2024",
		"field_17":     "18:00",
		"F_CARGA_YEAR": year,
	}
}

func TestGetFilteredLogsMatchesNumericAndStringYears(t *testing.T) {
	db := testDB(t)
	year := time.Now().Year()

	// The upstream list serves the year as a number for some rows and as a
	// string for others; both must stay in scope.
	records := []TravelLog{
		{ID: 1, Fields: eligibleFields(float64(year))},
		{ID: 2, Fields: eligibleFields(fmt.Sprintf("%d", year))},
		{ID: 3, Fields: eligibleFields(float64(year - 1))},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("inserting record %d: %v", records[i].ID, err)
		}
	}

	logs, err := GetFilteredLogs(db)
	if err != nil {
		t.Fatal(err)
	}
	got := map[int]bool{}
	for _, l := range logs {
		got[l.ID] = true
	}
	if !got[1] {
		t.Errorf("numeric-year record must be in scope")
	}
	if !got[2] {
		t.Errorf("string-year record must be in scope")
	}
	if got[3] {
		t.Errorf("prior-year record must be out of scope")
	}
}

func TestGetFilteredLogsRequiresUnloadFields(t *testing.T) {
	db := testDB(t)
	year := time.Now().Year()

	fields := eligibleFields(float64(year))
	delete(fields, "field_17")
	if err := db.Create(&TravelLog{ID: 1, Fields: fields}).Error; err != nil {
		t.Fatal(err)
	}

	logs, err := GetFilteredLogs(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("records without an unload time are ineligible, got %d", len(logs))
	}
}

func TestGetReassignmentByTitle(t *testing.T) {
	db := testDB(t)
	record := Reassignment{ID: 1, Fields: datatypes.JSONMap{
		"Title":     "T1",
		"no_tracto": "ECO 22",
	}}
	if err := db.Create(&record).Error; err != nil {
		t.Fatal(err)
	}

	reas, err := GetReassignmentByTitle(db, "T1")
	if err != nil {
		t.Fatal(err)
	}
	if reas == nil || FieldString(reas.Fields, "no_tracto") != "ECO 22" {
		t.Errorf("expected the T1 overlay, got %+v", reas)
	}

	missing, err := GetReassignmentByTitle(db, "T9")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("a missing overlay yields nil without error, got %+v", missing)
	}
}
