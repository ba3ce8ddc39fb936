package Reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestMonthName(t *testing.T) {
	if got := MonthName(time.January); got != "Enero" {
		t.Errorf("expected Enero, got %s", got)
	}
	if got := MonthName(time.December); got != "Diciembre" {
		t.Errorf("expected Diciembre, got %s", got)
	}
}

func TestRenderWorkbookLayout(t *testing.T) {
	km := 250.0
	rows := []LedgerRow{
		{
			TripNo:     "T1",
			Tractor:    "ECO 10",
			Client:     "CLIENTE",
			LoadDate:   dayPtr(2024, 5, 2),
			LoadTime:   "08:30:00",
			KmTraveled: &km,
		},
		{
			TripNo:  "T2",
			Tractor: "ECO 11",
		},
	}

	content, err := RenderWorkbook(rows)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != "Reporte" {
		t.Errorf("expected sheet Reporte, got %s", name)
	}

	header, err := f.GetCellValue("Reporte", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if header != ColumnOrder[0] {
		t.Errorf("expected header %s, got %s", ColumnOrder[0], header)
	}

	trip, _ := f.GetCellValue("Reporte", "A2")
	if trip != "T1" {
		t.Errorf("expected first data row T1, got %s", trip)
	}
	loadDate, _ := f.GetCellValue("Reporte", "M2")
	if loadDate != "2024-05-02" {
		t.Errorf("expected load date 2024-05-02, got %s", loadDate)
	}
	loadTime, _ := f.GetCellValue("Reporte", "N2")
	if loadTime != "08:30" {
		t.Errorf("expected load time trimmed to 08:30, got %s", loadTime)
	}
	second, _ := f.GetCellValue("Reporte", "A3")
	if second != "T2" {
		t.Errorf("expected second data row T2, got %s", second)
	}
}
