// Package dispatch turns domain events into best-effort notifications. It
// resolves the audience against the user directory at dispatch time and
// publishes one queue message per (recipient, channel); delivery itself is
// the notifier worker's job.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

// Directory is the identity lookup used for role-based audiences. It is
// queried per dispatch, never cached, so admin-set changes take effect
// immediately.
type Directory interface {
	GetAdminEmails() ([]string, error)
	GetAllActiveEmails() ([]string, error)
}

// Publisher hands a single notification message to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, msg domain.NotificationMessage) error
}

// Target is a resolved audience. Exactly one of the three forms is set.
type Target struct {
	UserEmails []string
	IsAdmin    bool
	IsAll      bool
}

// Result reports dispatch outcome to the caller. A non-success result must
// never fail the domain mutation that triggered it.
type Result struct {
	Success bool
	Message string
}

type Dispatcher struct {
	directory Directory
	publisher Publisher
	baseURL   string
}

func NewDispatcher(directory Directory, publisher Publisher, baseURL string) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// ResolveTarget maps an event type to its audience. The mapping is fixed
// policy, not configurable per call site.
func ResolveTarget(event domain.Event) Target {
	switch event.Type {
	case domain.EventScheduleSubmitted:
		return Target{IsAdmin: true}
	case domain.EventExchangeProposed:
		return Target{UserEmails: []string{event.Target}}
	case domain.EventExchangeResolved:
		return Target{UserEmails: []string{event.Requester}}
	default:
		// SchedulePublished, AnnouncementCreated, DeadlineReminder
		return Target{IsAll: true}
	}
}

// BuildPayload words the notification for an event. Only ExchangeProposed
// demands interaction: the target has to answer it.
func BuildPayload(event domain.Event, baseURL string) domain.NotificationPayload {
	switch event.Type {
	case domain.EventScheduleSubmitted:
		return domain.NotificationPayload{
			Title: "New availability submission",
			Body:  fmt.Sprintf("%s submitted availability for %s (save %d of %d)", event.ActorName, event.Month, event.EditCount, domain.MaxSubmissionEdits),
			URL:   baseURL + "/admin/submissions",
			Tag:   "schedule-submitted",
		}
	case domain.EventExchangeProposed:
		return domain.NotificationPayload{
			Title:              "Shift exchange request",
			Body:               fmt.Sprintf("%s asks to take over your %s shift on %s", event.ActorName, event.Shift, event.Date),
			URL:                baseURL + "/exchanges",
			Tag:                "exchange-proposed",
			RequireInteraction: true,
		}
	case domain.EventExchangeResolved:
		verb := "accepted"
		if event.Status == domain.ExchangeStatusRejected {
			verb = "rejected"
		}
		return domain.NotificationPayload{
			Title: "Shift exchange " + verb,
			Body:  fmt.Sprintf("%s %s your request for the %s shift on %s", event.TargetName, verb, event.Shift, event.Date),
			URL:   baseURL + "/exchanges",
			Tag:   "exchange-resolved",
		}
	case domain.EventSchedulePublished:
		return domain.NotificationPayload{
			Title: "Schedule published",
			Body:  fmt.Sprintf("The shift schedule for %s is now available", event.Month),
			URL:   baseURL + "/schedule",
			Tag:   "schedule-published",
		}
	case domain.EventAnnouncementCreated:
		return domain.NotificationPayload{
			Title: "New announcement",
			Body:  event.Title,
			URL:   baseURL + "/announcements",
			Tag:   "announcement",
		}
	case domain.EventDeadlineReminder:
		body := fmt.Sprintf("%d days left to submit your availability for next month", event.DaysLeft)
		if event.DaysLeft == 0 {
			body = "Today is the last day to submit your availability for next month"
		}
		return domain.NotificationPayload{
			Title: "Submission deadline reminder",
			Body:  body,
			URL:   baseURL + "/availability",
			Tag:   "deadline-reminder",
		}
	default:
		return domain.NotificationPayload{Title: string(event.Type)}
	}
}

// channelsFor picks the delivery channels attempted per audience member.
// Push and chat-bot are always tried independently; admin-facing events also
// get an email copy.
func channelsFor(event domain.Event) []domain.Channel {
	if event.Type == domain.EventScheduleSubmitted {
		return []domain.Channel{domain.ChannelPush, domain.ChannelChatBot, domain.ChannelEmail}
	}
	return []domain.Channel{domain.ChannelPush, domain.ChannelChatBot}
}

// Dispatch resolves the audience and enqueues one message per recipient and
// channel. Failures are logged and folded into the result; they are never
// returned as errors because the triggering mutation is already committed.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) Result {
	target := ResolveTarget(event)

	emails, err := d.resolveEmails(target)
	if err != nil {
		slog.Error("failed to resolve notification audience", "event", event.Type, "error", err)
		return Result{Success: false, Message: "could not resolve the notification audience"}
	}

	payload := BuildPayload(event, d.baseURL)
	channels := channelsFor(event)

	failures := 0
	for _, email := range emails {
		for _, channel := range channels {
			msg := domain.NotificationMessage{
				Channel: channel,
				To:      email,
				Payload: payload,
			}
			if err := d.publisher.Publish(ctx, msg); err != nil {
				// one channel failing must not block the other
				slog.Error("failed to enqueue notification", "event", event.Type, "channel", channel, "to", email, "error", err)
				failures++
			}
		}
	}

	if failures > 0 {
		return Result{Success: false, Message: fmt.Sprintf("%d notification(s) could not be enqueued", failures)}
	}

	return Result{Success: true}
}

func (d *Dispatcher) resolveEmails(target Target) ([]string, error) {
	switch {
	case target.IsAdmin:
		return d.directory.GetAdminEmails()
	case target.IsAll:
		return d.directory.GetAllActiveEmails()
	default:
		return target.UserEmails, nil
	}
}
