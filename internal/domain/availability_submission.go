package domain

import "time"

// MaxSubmissionEdits caps how many accepted saves a volunteer gets per month.
const MaxSubmissionEdits = 2

type AvailabilitySubmission struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userID"`
	Month       string    `json:"month"` // "2006-01"
	Dates       []string  `json:"dates"` // "2006-01-02"
	Overnights  []string  `json:"overnights"`
	EditCount   int32     `json:"editCount"`
	SubmittedAt time.Time `json:"submittedAt"`
	Version     int32     `json:"-"`
}
