package SharePoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rodrigoberna1996/api-scania/Models"
)

// IngestionJob pulls the trip and reassignment lists from SharePoint into
// the local record store so report generation never hits Graph for row data.
type IngestionJob struct {
	auth             *AuthClient
	travelLogURL     string
	reassignmentsURL string
	db               *gorm.DB
	client           *http.Client
}

func NewIngestionJob(auth *AuthClient, travelLogURL, reassignmentsURL string, db *gorm.DB) *IngestionJob {
	return &IngestionJob{
		auth:             auth,
		travelLogURL:     travelLogURL,
		reassignmentsURL: reassignmentsURL,
		db:               db,
		client:           &http.Client{Timeout: 60 * time.Second},
	}
}

type listItem struct {
	ID                   string                 `json:"id"`
	CreatedDateTime      string                 `json:"createdDateTime"`
	LastModifiedDateTime string                 `json:"lastModifiedDateTime"`
	Fields               map[string]interface{} `json:"fields"`
}

// fetchListItems walks a list with $expand=fields, following the nextLink.
func (j *IngestionJob) fetchListItems(ctx context.Context, url string) ([]listItem, error) {
	token, err := j.auth.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var items []listItem
	nextURL := url
	for nextURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, nextURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := j.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching list items: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("list request failed with status %d", resp.StatusCode)
		}

		var page struct {
			Value    []listItem `json:"value"`
			NextLink string     `json:"@odata.nextLink"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing list page: %w", err)
		}
		items = append(items, page.Value...)
		nextURL = page.NextLink
	}
	return items, nil
}

// UpdateTravelLogs refreshes the trip records table.
func (j *IngestionJob) UpdateTravelLogs(ctx context.Context) (int, error) {
	items, err := j.fetchListItems(ctx, j.travelLogURL)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		record := Models.TravelLog{
			ID:         itemID(item.ID),
			Fields:     datatypes.JSONMap(item.Fields),
			CreatedAt:  itemTime(item.CreatedDateTime),
			ModifiedAt: itemTime(item.LastModifiedDateTime),
		}
		err := j.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error
		if err != nil {
			return 0, fmt.Errorf("upserting travel log %s: %w", item.ID, err)
		}
	}
	log.Printf("Ingested %d travel log items", len(items))
	return len(items), nil
}

// UpdateReassignments refreshes the reassignment overlay table.
func (j *IngestionJob) UpdateReassignments(ctx context.Context) (int, error) {
	items, err := j.fetchListItems(ctx, j.reassignmentsURL)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		record := Models.Reassignment{
			ID:         itemID(item.ID),
			Fields:     datatypes.JSONMap(item.Fields),
			CreatedAt:  itemTime(item.CreatedDateTime),
			ModifiedAt: itemTime(item.LastModifiedDateTime),
		}
		err := j.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error
		if err != nil {
			return 0, fmt.Errorf("upserting reassignment %s: %w", item.ID, err)
		}
	}
	log.Printf("Ingested %d reassignment items", len(items))
	return len(items), nil
}

func itemID(s string) int {
	id, _ := strconv.Atoi(s)
	return id
}

func itemTime(s string) time.Time {
	if t := Models.ParseDayFirstDate(s); t != nil {
		return *t
	}
	return time.Now().UTC()
}
