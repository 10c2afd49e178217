// Package coordinator sequences every schedule- and exchange-related action:
// validate, mutate the store, then fan out notifications. A dispatch failure
// is logged and swallowed; the committed mutation is never rolled back for
// it.
package coordinator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/deadline"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/dispatch"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

// Store is the slice of the repository the coordinator mutates.
type Store interface {
	GetUserByEmail(email string) (*domain.User, error)
	UpsertAvailabilitySubmission(submission *domain.AvailabilitySubmission) error
	InsertExchangeRequest(request *domain.ExchangeRequest) error
	GetExchangeRequestByID(id int64) (*domain.ExchangeRequest, error)
	HasPendingExchangeRequest(requesterEmail, targetEmail, date, shift string) (bool, error)
	ResolveExchangeRequest(id int64, status domain.ExchangeStatus) (*domain.ExchangeRequest, error)
	UpsertPublishedSchedule(schedule *domain.PublishedSchedule) error
	InsertAnnouncement(announcement *domain.Announcement) error
}

// EventDispatcher is the best-effort side channel.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event) dispatch.Result
}

type Coordinator struct {
	store      Store
	dispatcher EventDispatcher
	now        func() time.Time
}

func New(store Store, dispatcher EventDispatcher) *Coordinator {
	return &Coordinator{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// SubmitAvailability saves a volunteer's monthly availability. The deadline
// is checked before any mutation; the edit cap is enforced by the store.
func (c *Coordinator) SubmitAvailability(ctx context.Context, user *domain.User, month string, dates, overnights []string) (*domain.AvailabilitySubmission, error) {
	window := deadline.Evaluate(c.now(), user.AllowLateSubmission)
	if window.State == deadline.Closed {
		return nil, domain.ErrDeadlinePassed
	}

	submission := &domain.AvailabilitySubmission{
		UserID:     user.ID,
		Month:      month,
		Dates:      dates,
		Overnights: overnights,
	}
	if err := c.store.UpsertAvailabilitySubmission(submission); err != nil {
		return nil, err
	}

	c.dispatch(ctx, domain.Event{
		Type:      domain.EventScheduleSubmitted,
		Actor:     user.Email,
		ActorName: user.FullName,
		Month:     month,
		EditCount: submission.EditCount,
	})

	return submission, nil
}

// ProposeExchange opens a pending request asking the target to hand over a
// shift. Self-exchanges and duplicate pending requests for the same slot are
// refused before anything is written.
func (c *Coordinator) ProposeExchange(ctx context.Context, requester *domain.User, targetEmail, date, shift string) (*domain.ExchangeRequest, error) {
	if requester.Email == targetEmail {
		return nil, domain.ErrSelfExchange
	}

	// the target must exist; the dispatcher needs someone to notify
	if _, err := c.store.GetUserByEmail(targetEmail); err != nil {
		return nil, err
	}

	exists, err := c.store.HasPendingExchangeRequest(requester.Email, targetEmail, date, shift)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicatePending
	}

	request := &domain.ExchangeRequest{
		RequesterEmail: requester.Email,
		TargetEmail:    targetEmail,
		Date:           date,
		Shift:          shift,
	}
	if err := c.store.InsertExchangeRequest(request); err != nil {
		return nil, err
	}

	c.dispatch(ctx, domain.Event{
		Type:      domain.EventExchangeProposed,
		Actor:     requester.Email,
		ActorName: requester.FullName,
		Requester: requester.Email,
		Target:    targetEmail,
		Date:      date,
		Shift:     shift,
	})

	return request, nil
}

// RespondToExchange moves a pending request to accepted or rejected. The
// handler guarantees the responder is the request's target; here only the
// one-way transition is guarded. The store performs the transition
// conditionally, so a concurrent response loses cleanly instead of
// overwriting a terminal status.
func (c *Coordinator) RespondToExchange(ctx context.Context, responder *domain.User, requestID int64, accept bool) (*domain.ExchangeRequest, error) {
	request, err := c.store.GetExchangeRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.ExchangeStatusPending {
		return nil, domain.ErrAlreadyResolved
	}

	status := domain.ExchangeStatusAccepted
	if !accept {
		status = domain.ExchangeStatusRejected
	}

	resolved, err := c.store.ResolveExchangeRequest(requestID, status)
	if err != nil {
		if isNoRows(err) {
			// lost the race against another response
			return nil, domain.ErrAlreadyResolved
		}
		return nil, err
	}

	c.dispatch(ctx, domain.Event{
		Type:       domain.EventExchangeResolved,
		Requester:  resolved.RequesterEmail,
		Target:     resolved.TargetEmail,
		TargetName: responder.FullName,
		Date:       resolved.Date,
		Shift:      resolved.Shift,
		Status:     resolved.Status,
	})

	return resolved, nil
}

// PublishSchedule stores the official month table and notifies everyone.
func (c *Coordinator) PublishSchedule(ctx context.Context, admin *domain.User, month string, entries json.RawMessage) (*domain.PublishedSchedule, error) {
	schedule := &domain.PublishedSchedule{
		Month:       month,
		Entries:     entries,
		PublishedBy: admin.Email,
	}
	if err := c.store.UpsertPublishedSchedule(schedule); err != nil {
		return nil, err
	}

	c.dispatch(ctx, domain.Event{
		Type:  domain.EventSchedulePublished,
		Actor: admin.Email,
		Month: month,
	})

	return schedule, nil
}

// PublishAnnouncement stores an announcement and notifies everyone.
func (c *Coordinator) PublishAnnouncement(ctx context.Context, announcement *domain.Announcement) error {
	if err := c.store.InsertAnnouncement(announcement); err != nil {
		return err
	}

	c.dispatch(ctx, domain.Event{
		Type:  domain.EventAnnouncementCreated,
		Title: announcement.Title,
	})

	return nil
}

// SendDeadlineReminder notifies all volunteers while the window is open.
// Returns whether a reminder went out.
func (c *Coordinator) SendDeadlineReminder(ctx context.Context) bool {
	window := deadline.Evaluate(c.now(), false)
	if window.State != deadline.Open {
		return false
	}

	c.dispatch(ctx, domain.Event{
		Type:     domain.EventDeadlineReminder,
		DaysLeft: window.DaysRemaining,
	})

	return true
}

// SubmissionWindow exposes the current window state for a user.
func (c *Coordinator) SubmissionWindow(user *domain.User) deadline.Window {
	return deadline.Evaluate(c.now(), user.AllowLateSubmission)
}

func (c *Coordinator) dispatch(ctx context.Context, event domain.Event) {
	if res := c.dispatcher.Dispatch(ctx, event); !res.Success {
		slog.Warn("notification dispatch incomplete", "event", event.Type, "message", res.Message)
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
