package Models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TravelLog mirrors one upstream trip document. The raw list-item fields are
// kept as-is in a JSON column so ingestion never loses columns the report
// does not know about yet.
type TravelLog struct {
	ID         int               `json:"id" gorm:"primaryKey"`
	Fields     datatypes.JSONMap `json:"fields" gorm:"not null"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
}

func (TravelLog) TableName() string {
	return "travel_log"
}

// Reassignment is the correction overlay document for a trip, keyed by the
// trip title inside its fields.
type Reassignment struct {
	ID         int               `json:"id" gorm:"primaryKey"`
	Fields     datatypes.JSONMap `json:"fields" gorm:"not null"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
}

func (Reassignment) TableName() string {
	return "travel_log_reassignments"
}

// GetFilteredLogs returns the trip records eligible for the report: rows that
// carry both the unloading date and time fields, scoped to the current year.
// The year field arrives as a JSON number or a string depending on how the
// upstream list serialized it, so both sides compare as integers.
func GetFilteredLogs(db *gorm.DB) ([]TravelLog, error) {
	var logs []TravelLog
	err := db.
		Where(datatypes.JSONQuery("fields").HasKey("field_16")).
		Where(datatypes.JSONQuery("fields").HasKey("field_17")).
		Where("CAST(json_extract(fields, '$.F_CARGA_YEAR') AS INTEGER) = ?", time.Now().Year()).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("querying travel logs: %w", err)
	}
	return logs, nil
}

// GetReassignmentByTitle returns the single reassignment overlay for a trip
// title, or nil when there is none.
func GetReassignmentByTitle(db *gorm.DB, title string) (*Reassignment, error) {
	var reas Reassignment
	err := db.
		Where(datatypes.JSONQuery("fields").Equals(title, "Title")).
		First(&reas).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reassignment %s: %w", title, err)
	}
	return &reas, nil
}

// FieldString reads a field value as a trimmed string. Numeric JSON values
// are formatted without a trailing ".0000" tail.
func FieldString(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// FieldFloat reads a field value as a float, tolerating string numbers with
// thousands separators. Missing or unparsable values yield 0.
func FieldFloat(fields map[string]interface{}, key string) float64 {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// FieldBool reads a field value as a flag. SharePoint yes/no columns come
// through as booleans but older rows carry "true"/"1" strings.
func FieldBool(fields map[string]interface{}, key string) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes" || s == "sí" || s == "si"
	case float64:
		return t != 0
	default:
		return false
	}
}
