package SharePoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rodrigoberna1996/api-scania/Models"
)

const (
	tollsWorkbook   = "Peajes.xlsx"
	dieselWorkbook  = "Diesel.xlsx"
	factorsWorkbook = "Factores.xlsx"
	factorsSheet    = "Data1"

	// Header rows (0-based) inside each workbook; the layouts are fixed by
	// the templates the operations team maintains.
	tollsHeaderRow   = 8
	dieselHeaderRow  = 4
	factorsHeaderRow = 1

	// The tolls template repeats banner rows under the header.
	tollsDataSkip = 8

	taxFactor = 1.16
)

// GraphClient downloads the reference workbooks from the costs folder on the
// shared drive and parses them into typed datasets.
type GraphClient struct {
	baseURL  string
	driveID  string
	folderID string
	auth     *AuthClient
	client   *http.Client
}

func NewGraphClient(baseURL, driveID, folderID string, auth *AuthClient) *GraphClient {
	return &GraphClient{
		baseURL:  baseURL,
		driveID:  driveID,
		folderID: folderID,
		auth:     auth,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GraphClient) get(ctx context.Context, url string) ([]byte, error) {
	token, err := g.auth.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph request %s failed with status %d", url, resp.StatusCode)
	}
	return body, nil
}

// DownloadWorkbook locates a file by name in the costs folder and opens it.
func (g *GraphClient) DownloadWorkbook(ctx context.Context, name string) (*excelize.File, error) {
	listURL := fmt.Sprintf("%s/drives/%s/items/%s/children", g.baseURL, g.driveID, g.folderID)
	body, err := g.get(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var listing struct {
		Value []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"value"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parsing folder listing: %w", err)
	}

	itemID := ""
	for _, item := range listing.Value {
		if item.Name == name {
			itemID = item.ID
			break
		}
	}
	if itemID == "" {
		return nil, fmt.Errorf("workbook %s not found in costs folder", name)
	}

	content, err := g.get(ctx, fmt.Sprintf("%s/drives/%s/items/%s/content", g.baseURL, g.driveID, itemID))
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", name, err)
	}
	return f, nil
}

func (g *GraphClient) sheetRows(ctx context.Context, workbook, sheet string) ([][]string, error) {
	f, err := g.DownloadWorkbook(ctx, workbook)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s of %s: %w", sheet, workbook, err)
	}
	return rows, nil
}

// columnIndex finds a required column in a header row; the offset of any
// required column missing is a fatal error for the report.
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("required column %q not found", name)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Tolls parses the toll transactions workbook.
func (g *GraphClient) Tolls(ctx context.Context) ([]Models.TollRecord, error) {
	rows, err := g.sheetRows(ctx, tollsWorkbook, "")
	if err != nil {
		return nil, err
	}
	return parseTolls(rows)
}

func parseTolls(rows [][]string) ([]Models.TollRecord, error) {
	if len(rows) <= tollsHeaderRow {
		return nil, fmt.Errorf("%s has no header row", tollsWorkbook)
	}
	header := rows[tollsHeaderRow]

	dateCol, err := columnIndex(header, "Fecha")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tollsWorkbook, err)
	}
	ecoCol, err := columnIndex(header, "No. Económico")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tollsWorkbook, err)
	}
	amountCol, err := columnIndex(header, "Costo final")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tollsWorkbook, err)
	}

	var tolls []Models.TollRecord
	for i := tollsHeaderRow + 1 + tollsDataSkip; i < len(rows); i++ {
		ts := Models.ParseDayFirstDate(cell(rows[i], dateCol))
		amount, ok := parseAmount(cell(rows[i], amountCol))
		eco := cell(rows[i], ecoCol)
		if ts == nil || !ok || eco == "" {
			continue
		}
		tolls = append(tolls, Models.TollRecord{
			EconomicNumber: eco,
			Timestamp:      *ts,
			Amount:         amount,
		})
	}
	return tolls, nil
}

// DieselPrices parses the diesel workbook. The template carries the taxed
// price; entries come out pre-tax and sorted by date for the lookup.
func (g *GraphClient) DieselPrices(ctx context.Context) ([]Models.DieselPriceEntry, error) {
	rows, err := g.sheetRows(ctx, dieselWorkbook, "")
	if err != nil {
		return nil, err
	}
	return parseDieselPrices(rows)
}

func parseDieselPrices(rows [][]string) ([]Models.DieselPriceEntry, error) {
	if len(rows) <= dieselHeaderRow {
		return nil, fmt.Errorf("%s has no header row", dieselWorkbook)
	}
	header := rows[dieselHeaderRow]

	priceCol, err := columnIndex(header, "Precio")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dieselWorkbook, err)
	}
	if _, err := columnIndex(header, "Lts"); err != nil {
		return nil, fmt.Errorf("%s: %w", dieselWorkbook, err)
	}
	dateCol, err := columnIndex(header, "Fecha")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dieselWorkbook, err)
	}

	var entries []Models.DieselPriceEntry
	for i := dieselHeaderRow + 1; i < len(rows); i++ {
		date := Models.ParseDayFirstDate(cell(rows[i], dateCol))
		price, ok := parseAmount(cell(rows[i], priceCol))
		if date == nil || !ok {
			continue
		}
		entries = append(entries, Models.DieselPriceEntry{
			Date:  *date,
			Price: math.Round(price/taxFactor*100) / 100,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

// MaintenanceFactors parses the odometer-range factor table.
func (g *GraphClient) MaintenanceFactors(ctx context.Context) ([]Models.MaintenanceFactor, error) {
	rows, err := g.sheetRows(ctx, factorsWorkbook, factorsSheet)
	if err != nil {
		return nil, err
	}
	return parseMaintenanceFactors(rows)
}

func parseMaintenanceFactors(rows [][]string) ([]Models.MaintenanceFactor, error) {
	if len(rows) <= factorsHeaderRow {
		return nil, fmt.Errorf("%s has no header row", factorsWorkbook)
	}
	header := rows[factorsHeaderRow]

	lowCol, err := columnIndex(header, "Rango1")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", factorsWorkbook, err)
	}
	highCol, err := columnIndex(header, "Rango2")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", factorsWorkbook, err)
	}
	factorCol, err := columnIndex(header, "Factor")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", factorsWorkbook, err)
	}

	var factors []Models.MaintenanceFactor
	for i := factorsHeaderRow + 1; i < len(rows); i++ {
		factor, ok := parseAmount(cell(rows[i], factorCol))
		if !ok {
			continue
		}
		lowStr := cell(rows[i], lowCol)
		if lowStr == "-" {
			lowStr = "0"
		}
		low, _ := parseAmount(lowStr)
		high, ok := parseAmount(cell(rows[i], highCol))
		if !ok {
			continue
		}
		factors = append(factors, Models.MaintenanceFactor{
			RangeLow:  low,
			RangeHigh: high,
			Factor:    factor,
		})
	}
	return factors, nil
}
