package Reporting

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reporte"

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish name of a calendar month.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// RenderWorkbook writes the ledger to a single-sheet workbook: green header
// row, gray banding on alternating data rows, column widths sized to content.
func RenderWorkbook(rows []LedgerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"99D62B"}},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	bandStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	})
	if err != nil {
		return nil, err
	}

	widths := make([]int, len(ColumnOrder))
	for col, header := range ColumnOrder {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
		widths[col] = len(header)
	}
	lastCol, err := excelize.ColumnNumberToName(len(ColumnOrder))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i := range rows {
		excelRow := i + 2
		values := rows[i].Values()
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, excelRow)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
			if w := len(fmt.Sprint(value)); w > widths[col] {
				widths[col] = w
			}
		}
		if excelRow%2 == 1 {
			if err := f.SetCellStyle(sheetName,
				fmt.Sprintf("A%d", excelRow),
				fmt.Sprintf("%s%d", lastCol, excelRow),
				bandStyle); err != nil {
				return nil, err
			}
		}
	}

	for col := range ColumnOrder {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, float64(widths[col]+2)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
