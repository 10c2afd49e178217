package coordinator

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/deadline"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/dispatch"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

type fakeStore struct {
	users       map[string]*domain.User
	submissions map[string]*domain.AvailabilitySubmission
	requests    map[int64]*domain.ExchangeRequest
	schedules   map[string]*domain.PublishedSchedule
	nextID      int64

	// when set, ResolveExchangeRequest behaves as if another responder won
	// the conditional update between the read and the write
	loseResolveRace bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[string]*domain.User{},
		submissions: map[string]*domain.AvailabilitySubmission{},
		requests:    map[int64]*domain.ExchangeRequest{},
		schedules:   map[string]*domain.PublishedSchedule{},
		nextID:      1,
	}
}

func (s *fakeStore) GetUserByEmail(email string) (*domain.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *fakeStore) UpsertAvailabilitySubmission(submission *domain.AvailabilitySubmission) error {
	key := submission.Month
	existing, ok := s.submissions[key]
	if !ok {
		submission.EditCount = 1
		submission.SubmittedAt = time.Now()
		s.submissions[key] = submission
		return nil
	}
	if existing.EditCount >= domain.MaxSubmissionEdits {
		return domain.ErrEditLimitExceeded
	}
	submission.EditCount = existing.EditCount + 1
	submission.SubmittedAt = time.Now()
	s.submissions[key] = submission
	return nil
}

func (s *fakeStore) InsertExchangeRequest(request *domain.ExchangeRequest) error {
	request.ID = s.nextID
	s.nextID++
	request.Status = domain.ExchangeStatusPending
	request.CreatedAt = time.Now()
	s.requests[request.ID] = request
	return nil
}

func (s *fakeStore) GetExchangeRequestByID(id int64) (*domain.ExchangeRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *request
	return &copied, nil
}

func (s *fakeStore) HasPendingExchangeRequest(requesterEmail, targetEmail, date, shift string) (bool, error) {
	for _, request := range s.requests {
		if request.RequesterEmail == requesterEmail && request.TargetEmail == targetEmail &&
			request.Date == date && request.Shift == shift && request.Status == domain.ExchangeStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ResolveExchangeRequest(id int64, status domain.ExchangeStatus) (*domain.ExchangeRequest, error) {
	request, ok := s.requests[id]
	if !ok || s.loseResolveRace || request.Status != domain.ExchangeStatusPending {
		// same signal the conditional UPDATE gives when the row was already
		// resolved
		return nil, sql.ErrNoRows
	}
	request.Status = status
	now := time.Now()
	request.ResolvedAt = &now
	copied := *request
	return &copied, nil
}

func (s *fakeStore) UpsertPublishedSchedule(schedule *domain.PublishedSchedule) error {
	s.schedules[schedule.Month] = schedule
	return nil
}

func (s *fakeStore) InsertAnnouncement(announcement *domain.Announcement) error {
	return nil
}

type fakeDispatcher struct {
	events []domain.Event
	result dispatch.Result
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event domain.Event) dispatch.Result {
	d.events = append(d.events, event)
	if d.result == (dispatch.Result{}) {
		return dispatch.Result{Success: true}
	}
	return d.result
}

func newTestCoordinator(day int) (*Coordinator, *fakeStore, *fakeDispatcher) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	coord := New(store, dispatcher)
	coord.now = func() time.Time {
		return time.Date(2026, time.September, day, 12, 0, 0, 0, time.UTC)
	}
	return coord, store, dispatcher
}

func volunteer(email string) *domain.User {
	return &domain.User{ID: 1, Username: "noa1", FullName: "Noa Levi", Email: email, Role: domain.RoleVolunteer, IsActive: true}
}

func TestSubmitAvailability(t *testing.T) {
	t.Run("first submission counts as the first save", func(t *testing.T) {
		coord, _, dispatcher := newTestCoordinator(10)

		submission, err := coord.SubmitAvailability(context.Background(), volunteer("noa@example.org"), "2026-10", []string{"2026-10-03"}, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(1), submission.EditCount)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, domain.EventScheduleSubmitted, dispatcher.events[0].Type)
		assert.Equal(t, "noa@example.org", dispatcher.events[0].Actor)
	})

	t.Run("second save is the last one allowed", func(t *testing.T) {
		coord, _, dispatcher := newTestCoordinator(10)
		user := volunteer("noa@example.org")

		_, err := coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-03"}, nil)
		require.NoError(t, err)

		submission, err := coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-04"}, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), submission.EditCount)

		_, err = coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-05"}, nil)
		assert.ErrorIs(t, err, domain.ErrEditLimitExceeded)

		// only the two successful saves were announced
		assert.Len(t, dispatcher.events, 2)
	})

	t.Run("closed window refuses before touching the store", func(t *testing.T) {
		coord, store, dispatcher := newTestCoordinator(20)

		_, err := coord.SubmitAvailability(context.Background(), volunteer("noa@example.org"), "2026-10", []string{"2026-10-03"}, nil)
		assert.ErrorIs(t, err, domain.ErrDeadlinePassed)
		assert.Empty(t, store.submissions)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("late-submission override keeps the window open", func(t *testing.T) {
		coord, _, _ := newTestCoordinator(20)
		user := volunteer("noa@example.org")
		user.AllowLateSubmission = true

		_, err := coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-03"}, nil)
		assert.NoError(t, err)
	})

	t.Run("edit cap still applies under the override", func(t *testing.T) {
		coord, _, _ := newTestCoordinator(20)
		user := volunteer("noa@example.org")
		user.AllowLateSubmission = true

		for i := 0; i < domain.MaxSubmissionEdits; i++ {
			_, err := coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-03"}, nil)
			require.NoError(t, err)
		}
		_, err := coord.SubmitAvailability(context.Background(), user, "2026-10", []string{"2026-10-03"}, nil)
		assert.ErrorIs(t, err, domain.ErrEditLimitExceeded)
	})
}

func TestProposeExchange(t *testing.T) {
	t.Run("happy path notifies the target", func(t *testing.T) {
		coord, store, dispatcher := newTestCoordinator(10)
		store.users["omer@example.org"] = volunteer("omer@example.org")

		request, err := coord.ProposeExchange(context.Background(), volunteer("noa@example.org"), "omer@example.org", "2026-09-20", "night")
		require.NoError(t, err)
		assert.Equal(t, domain.ExchangeStatusPending, request.Status)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, domain.EventExchangeProposed, dispatcher.events[0].Type)
		assert.Equal(t, "omer@example.org", dispatcher.events[0].Target)
	})

	t.Run("self exchange is refused", func(t *testing.T) {
		coord, store, _ := newTestCoordinator(10)

		_, err := coord.ProposeExchange(context.Background(), volunteer("noa@example.org"), "noa@example.org", "2026-09-20", "night")
		assert.ErrorIs(t, err, domain.ErrSelfExchange)
		assert.Empty(t, store.requests)
	})

	t.Run("unknown target is refused", func(t *testing.T) {
		coord, _, _ := newTestCoordinator(10)

		_, err := coord.ProposeExchange(context.Background(), volunteer("noa@example.org"), "ghost@example.org", "2026-09-20", "night")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("duplicate pending request for the same slot is refused", func(t *testing.T) {
		coord, store, dispatcher := newTestCoordinator(10)
		store.users["omer@example.org"] = volunteer("omer@example.org")
		requester := volunteer("noa@example.org")

		_, err := coord.ProposeExchange(context.Background(), requester, "omer@example.org", "2026-09-20", "night")
		require.NoError(t, err)

		_, err = coord.ProposeExchange(context.Background(), requester, "omer@example.org", "2026-09-20", "night")
		assert.ErrorIs(t, err, domain.ErrDuplicatePending)
		assert.Len(t, dispatcher.events, 1)
	})

	t.Run("a resolved request does not block a new proposal", func(t *testing.T) {
		coord, store, _ := newTestCoordinator(10)
		target := volunteer("omer@example.org")
		store.users["omer@example.org"] = target
		requester := volunteer("noa@example.org")

		request, err := coord.ProposeExchange(context.Background(), requester, "omer@example.org", "2026-09-20", "night")
		require.NoError(t, err)

		_, err = coord.RespondToExchange(context.Background(), target, request.ID, false)
		require.NoError(t, err)

		_, err = coord.ProposeExchange(context.Background(), requester, "omer@example.org", "2026-09-20", "night")
		assert.NoError(t, err)
	})
}

func TestRespondToExchange(t *testing.T) {
	setup := func(t *testing.T) (*Coordinator, *fakeStore, *fakeDispatcher, *domain.ExchangeRequest) {
		coord, store, dispatcher := newTestCoordinator(10)
		store.users["omer@example.org"] = volunteer("omer@example.org")

		request, err := coord.ProposeExchange(context.Background(), volunteer("noa@example.org"), "omer@example.org", "2026-09-20", "night")
		require.NoError(t, err)
		dispatcher.events = nil
		return coord, store, dispatcher, request
	}

	t.Run("accept resolves and notifies the requester", func(t *testing.T) {
		coord, _, dispatcher, request := setup(t)
		responder := volunteer("omer@example.org")

		resolved, err := coord.RespondToExchange(context.Background(), responder, request.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ExchangeStatusAccepted, resolved.Status)
		assert.NotNil(t, resolved.ResolvedAt)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, domain.EventExchangeResolved, dispatcher.events[0].Type)
		assert.Equal(t, "noa@example.org", dispatcher.events[0].Requester)
	})

	t.Run("reject resolves with the rejected status", func(t *testing.T) {
		coord, _, _, request := setup(t)

		resolved, err := coord.RespondToExchange(context.Background(), volunteer("omer@example.org"), request.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ExchangeStatusRejected, resolved.Status)
	})

	t.Run("second response hits the one-way transition guard", func(t *testing.T) {
		coord, _, dispatcher, request := setup(t)
		responder := volunteer("omer@example.org")

		_, err := coord.RespondToExchange(context.Background(), responder, request.ID, true)
		require.NoError(t, err)

		_, err = coord.RespondToExchange(context.Background(), responder, request.ID, false)
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
		assert.Len(t, dispatcher.events, 1)
	})

	t.Run("losing the conditional update maps to already resolved", func(t *testing.T) {
		coord, store, _, request := setup(t)
		store.loseResolveRace = true

		_, err := coord.RespondToExchange(context.Background(), volunteer("omer@example.org"), request.ID, false)
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	})

	t.Run("unknown request id", func(t *testing.T) {
		coord, _, _, _ := setup(t)

		_, err := coord.RespondToExchange(context.Background(), volunteer("omer@example.org"), 999, true)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDispatchFailureDoesNotFailTheAction(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{result: dispatch.Result{Success: false, Message: "broker down"}}
	coord := New(store, dispatcher)
	coord.now = func() time.Time { return time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC) }

	submission, err := coord.SubmitAvailability(context.Background(), volunteer("noa@example.org"), "2026-10", []string{"2026-10-03"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), submission.EditCount)
}

func TestPublishSchedule(t *testing.T) {
	coord, store, dispatcher := newTestCoordinator(10)
	admin := &domain.User{Email: "chief@example.org", Role: domain.RoleAdmin}

	schedule, err := coord.PublishSchedule(context.Background(), admin, "2026-10", []byte(`[{"date":"2026-10-01","shift":"morning","volunteer":"noa@example.org"}]`))
	require.NoError(t, err)
	assert.Equal(t, "chief@example.org", schedule.PublishedBy)
	assert.Contains(t, store.schedules, "2026-10")

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventSchedulePublished, dispatcher.events[0].Type)
}

func TestSendDeadlineReminder(t *testing.T) {
	t.Run("window open", func(t *testing.T) {
		coord, _, dispatcher := newTestCoordinator(12)

		assert.True(t, coord.SendDeadlineReminder(context.Background()))
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, domain.EventDeadlineReminder, dispatcher.events[0].Type)
		assert.Equal(t, 3, dispatcher.events[0].DaysLeft)
	})

	t.Run("window closed", func(t *testing.T) {
		coord, _, dispatcher := newTestCoordinator(20)

		assert.False(t, coord.SendDeadlineReminder(context.Background()))
		assert.Empty(t, dispatcher.events)
	})
}

func TestSubmissionWindow(t *testing.T) {
	coord, _, _ := newTestCoordinator(16)

	user := volunteer("noa@example.org")
	assert.Equal(t, deadline.Closed, coord.SubmissionWindow(user).State)

	user.AllowLateSubmission = true
	assert.Equal(t, deadline.OpenOverride, coord.SubmissionWindow(user).State)
}
