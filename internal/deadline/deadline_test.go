package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 10, 30, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		day         int
		hasOverride bool
		want        Window
	}{
		{"first of the month", 1, false, Window{State: Open, DaysRemaining: 14}},
		{"middle of the window", 10, false, Window{State: Open, DaysRemaining: 5}},
		{"last day", 15, false, Window{State: Open, DaysRemaining: 0}},
		{"day after the deadline", 16, false, Window{State: Closed}},
		{"end of the month", 31, false, Window{State: Closed}},
		{"override after the deadline", 16, true, Window{State: OpenOverride}},
		{"override at the end of the month", 31, true, Window{State: OpenOverride}},
		{"override inside the window is just open", 10, true, Window{State: Open, DaysRemaining: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(date(tt.day), tt.hasOverride))
		})
	}
}
