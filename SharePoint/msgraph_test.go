package SharePoint

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// fixtureRows builds a workbook in memory and reads it back, so the parsers
// see exactly what excelize produces for a downloaded template.
func fixtureRows(t *testing.T, cells [][]string) [][]string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range cells {
		for j, value := range row {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, name, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func tollsFixture(header []string) [][]string {
	cells := make([][]string, 0, 20)
	for i := 0; i < tollsHeaderRow; i++ {
		cells = append(cells, []string{"REPORTE DE CRUCES"})
	}
	cells = append(cells, header)
	// The template repeats banner rows under the header.
	for i := 0; i < tollsDataSkip; i++ {
		cells = append(cells, []string{"CASETA", "", ""})
	}
	cells = append(cells,
		[]string{"01/05/2024 12:00:00", "ECO 10", "$116.00"},
		[]string{"sin fecha", "ECO 10", "58"},
		[]string{"02/05/2024", "ECO 11", "1,160"},
	)
	return cells
}

func TestParseTolls(t *testing.T) {
	rows := fixtureRows(t, tollsFixture([]string{"Fecha", "No. Económico", "Costo final"}))

	tolls, err := parseTolls(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(tolls) != 2 {
		t.Fatalf("expected 2 transactions (banner and bad rows dropped), got %d", len(tolls))
	}
	if tolls[0].EconomicNumber != "ECO 10" || tolls[0].Amount != 116 {
		t.Errorf("unexpected first transaction: %+v", tolls[0])
	}
	want := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if !tolls[0].Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, tolls[0].Timestamp)
	}
	if tolls[1].EconomicNumber != "ECO 11" || tolls[1].Amount != 1160 {
		t.Errorf("thousands separators must strip, got %+v", tolls[1])
	}
}

func TestParseTollsMissingColumnIsFatal(t *testing.T) {
	rows := fixtureRows(t, tollsFixture([]string{"Fecha", "No. Económico", "Importe"}))

	if _, err := parseTolls(rows); err == nil || !strings.Contains(err.Error(), "Costo final") {
		t.Errorf("expected a missing-column error for Costo final, got %v", err)
	}
}

func TestParseDieselPrices(t *testing.T) {
	cells := [][]string{
		{"CONTROL DE DIESEL"},
		{}, {}, {},
		{"Fecha", "Precio", "Lts"},
		{"01/04/2024", "24.36", "500"},
		{"15/03/2024", "23.20", "400"},
		{"", "", ""},
	}
	rows := fixtureRows(t, cells)

	entries, err := parseDieselPrices(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 price entries, got %d", len(entries))
	}
	// Sorted ascending, pre-tax: 23.20/1.16 then 24.36/1.16.
	if entries[0].Price != 20.00 || entries[0].Date.Month() != time.March {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Price != 21.00 || entries[1].Date.Month() != time.April {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestParseDieselPricesRequiresLiters(t *testing.T) {
	cells := [][]string{
		{}, {}, {}, {},
		{"Fecha", "Precio"},
		{"01/04/2024", "24.36"},
	}
	rows := fixtureRows(t, cells)

	if _, err := parseDieselPrices(rows); err == nil || !strings.Contains(err.Error(), "Lts") {
		t.Errorf("expected a missing-column error for Lts, got %v", err)
	}
}

func TestParseMaintenanceFactors(t *testing.T) {
	cells := [][]string{
		{"FACTORES DE MANTENIMIENTO"},
		{"Rango1", "Rango2", "Factor"},
		{"-", "100,000", "1.20"},
		{"100,001", "500,000", "2.50"},
		{"500,001", "900,000", ""},
	}
	rows := fixtureRows(t, cells)

	factors, err := parseMaintenanceFactors(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(factors) != 2 {
		t.Fatalf("expected 2 factor bands (factorless row dropped), got %d", len(factors))
	}
	if factors[0].RangeLow != 0 || factors[0].RangeHigh != 100000 || factors[0].Factor != 1.2 {
		t.Errorf("a dash lower bound means 0, got %+v", factors[0])
	}
	if factors[1].RangeLow != 100001 || factors[1].RangeHigh != 500000 || factors[1].Factor != 2.5 {
		t.Errorf("unexpected second band: %+v", factors[1])
	}
}
