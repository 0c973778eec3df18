package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SuggestionList is stored as JSONB alongside each logged query.
type SuggestionList []Suggestion

// Value implements driver.Valuer for JSONB
func (s SuggestionList) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *SuggestionList) Scan(value interface{}) error {
	if value == nil {
		*s = make(SuggestionList, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(SuggestionList, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(SuggestionList, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// SearchLog records one suggestion request for analytics. Logging is
// best-effort: the serving path never depends on it.
type SearchLog struct {
	ID          uuid.UUID      `json:"id"`
	Dataset     string         `json:"dataset"` // "vn" or "us"
	Query       string         `json:"query"`
	ImageHint   string         `json:"image_hint,omitempty"`
	ImagePath   *string        `json:"image_path,omitempty"`
	Source      string         `json:"source"` // "rule", "similarity", "ai"
	Suggestions SuggestionList `json:"suggestions"`
	CreatedAt   time.Time      `json:"created_at"`
}
