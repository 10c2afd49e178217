package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

type fakeDirectory struct {
	admins []string
	active []string
	err    error
}

func (d *fakeDirectory) GetAdminEmails() ([]string, error)     { return d.admins, d.err }
func (d *fakeDirectory) GetAllActiveEmails() ([]string, error) { return d.active, d.err }

type fakePublisher struct {
	published []domain.NotificationMessage
	failFor   domain.Channel
}

func (p *fakePublisher) Publish(_ context.Context, msg domain.NotificationMessage) error {
	if p.failFor != "" && msg.Channel == p.failFor {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, msg)
	return nil
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name  string
		event domain.Event
		want  Target
	}{
		{
			"submission goes to admins",
			domain.Event{Type: domain.EventScheduleSubmitted, Actor: "noa@example.org"},
			Target{IsAdmin: true},
		},
		{
			"proposal goes to the target only",
			domain.Event{Type: domain.EventExchangeProposed, Requester: "noa@example.org", Target: "omer@example.org"},
			Target{UserEmails: []string{"omer@example.org"}},
		},
		{
			"resolution goes back to the requester",
			domain.Event{Type: domain.EventExchangeResolved, Requester: "noa@example.org", Target: "omer@example.org"},
			Target{UserEmails: []string{"noa@example.org"}},
		},
		{
			"publication goes to everyone",
			domain.Event{Type: domain.EventSchedulePublished},
			Target{IsAll: true},
		},
		{
			"announcement goes to everyone",
			domain.Event{Type: domain.EventAnnouncementCreated},
			Target{IsAll: true},
		},
		{
			"reminder goes to everyone",
			domain.Event{Type: domain.EventDeadlineReminder},
			Target{IsAll: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTarget(tt.event))
		})
	}
}

func TestBuildPayload(t *testing.T) {
	t.Run("only exchange proposals require interaction", func(t *testing.T) {
		for _, eventType := range []domain.EventType{
			domain.EventScheduleSubmitted,
			domain.EventExchangeProposed,
			domain.EventExchangeResolved,
			domain.EventSchedulePublished,
			domain.EventAnnouncementCreated,
			domain.EventDeadlineReminder,
		} {
			payload := BuildPayload(domain.Event{Type: eventType}, "https://duty.example.org")
			assert.Equal(t, eventType == domain.EventExchangeProposed, payload.RequireInteraction, string(eventType))
		}
	})

	t.Run("resolution wording follows the decision", func(t *testing.T) {
		accepted := BuildPayload(domain.Event{
			Type:   domain.EventExchangeResolved,
			Status: domain.ExchangeStatusAccepted,
		}, "")
		assert.Contains(t, accepted.Title, "accepted")

		rejected := BuildPayload(domain.Event{
			Type:   domain.EventExchangeResolved,
			Status: domain.ExchangeStatusRejected,
		}, "")
		assert.Contains(t, rejected.Title, "rejected")
	})

	t.Run("reminder on the last day", func(t *testing.T) {
		payload := BuildPayload(domain.Event{Type: domain.EventDeadlineReminder, DaysLeft: 0}, "")
		assert.Contains(t, payload.Body, "last day")
	})

	t.Run("links point under the base URL", func(t *testing.T) {
		payload := BuildPayload(domain.Event{Type: domain.EventSchedulePublished}, "https://duty.example.org")
		assert.Equal(t, "https://duty.example.org/schedule", payload.URL)
	})
}

func TestDispatchAdminFanOut(t *testing.T) {
	directory := &fakeDirectory{admins: []string{"chief@example.org", "deputy@example.org"}}
	publisher := &fakePublisher{}
	dispatcher := NewDispatcher(directory, publisher, "https://duty.example.org")

	result := dispatcher.Dispatch(context.Background(), domain.Event{
		Type:      domain.EventScheduleSubmitted,
		Actor:     "noa@example.org",
		ActorName: "Noa Levi",
		Month:     "2026-09",
		EditCount: 1,
	})

	require.True(t, result.Success)
	// two admins, three channels each (submissions also get an email copy)
	require.Len(t, publisher.published, 6)

	channelsSeen := map[string]map[domain.Channel]bool{}
	for _, msg := range publisher.published {
		if channelsSeen[msg.To] == nil {
			channelsSeen[msg.To] = map[domain.Channel]bool{}
		}
		channelsSeen[msg.To][msg.Channel] = true
	}
	for _, admin := range directory.admins {
		assert.True(t, channelsSeen[admin][domain.ChannelPush])
		assert.True(t, channelsSeen[admin][domain.ChannelChatBot])
		assert.True(t, channelsSeen[admin][domain.ChannelEmail])
	}
}

func TestDispatchDirectTargetSkipsEmail(t *testing.T) {
	directory := &fakeDirectory{}
	publisher := &fakePublisher{}
	dispatcher := NewDispatcher(directory, publisher, "")

	result := dispatcher.Dispatch(context.Background(), domain.Event{
		Type:      domain.EventExchangeProposed,
		Requester: "noa@example.org",
		Target:    "omer@example.org",
	})

	require.True(t, result.Success)
	require.Len(t, publisher.published, 2)
	for _, msg := range publisher.published {
		assert.Equal(t, "omer@example.org", msg.To)
		assert.NotEqual(t, domain.ChannelEmail, msg.Channel)
	}
}

func TestDispatchReportsPublishFailures(t *testing.T) {
	directory := &fakeDirectory{active: []string{"noa@example.org", "omer@example.org"}}
	publisher := &fakePublisher{failFor: domain.ChannelChatBot}
	dispatcher := NewDispatcher(directory, publisher, "")

	result := dispatcher.Dispatch(context.Background(), domain.Event{Type: domain.EventSchedulePublished, Month: "2026-09"})

	assert.False(t, result.Success)
	// the push messages still went out for both recipients
	require.Len(t, publisher.published, 2)
	for _, msg := range publisher.published {
		assert.Equal(t, domain.ChannelPush, msg.Channel)
	}
}

func TestDispatchDirectoryFailure(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("connection refused")}
	publisher := &fakePublisher{}
	dispatcher := NewDispatcher(directory, publisher, "")

	result := dispatcher.Dispatch(context.Background(), domain.Event{Type: domain.EventScheduleSubmitted})

	assert.False(t, result.Success)
	assert.Empty(t, publisher.published)
}
