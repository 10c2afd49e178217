package domain

import (
	"encoding/json"
	"time"
)

// PublishedSchedule is the official assignment table for one month. Entries
// is kept opaque to the backend; the frontend owns its shape.
type PublishedSchedule struct {
	ID          int64           `json:"id"`
	Month       string          `json:"month"` // "2006-01"
	Entries     json.RawMessage `json:"entries"`
	PublishedBy string          `json:"publishedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int32           `json:"-"`
}
