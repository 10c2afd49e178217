package domain

import "time"

// Announcement is visible to volunteers exactly while
// StartDate <= now <= EndDate.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
