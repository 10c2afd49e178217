// Package deadline decides whether monthly availability submissions are
// currently accepted. Pure calendar arithmetic, no side effects.
package deadline

import "time"

type State string

const (
	Open         State = "open"
	OpenOverride State = "open_override"
	Closed       State = "closed"
)

// LastSubmissionDay is the last calendar day of the open window.
const LastSubmissionDay = 15

type Window struct {
	State         State `json:"state"`
	DaysRemaining int   `json:"daysRemaining"`
}

// Evaluate returns the submission-window state for the given date. On the
// 15th itself DaysRemaining is 0, meaning "last day". After the 15th the
// window only stays open for users with the late-submission override.
func Evaluate(today time.Time, hasOverride bool) Window {
	day := today.Day()

	if day <= LastSubmissionDay {
		return Window{State: Open, DaysRemaining: LastSubmissionDay - day}
	}

	if hasOverride {
		return Window{State: OpenOverride}
	}

	return Window{State: Closed}
}
