package domain

import "errors"

// Domain refusals. These are terminal for the triggering action and are
// shown to the end user as-is; they never warrant a retry.
var (
	ErrDeadlinePassed    = errors.New("the submission window for this month is closed")
	ErrEditLimitExceeded = errors.New("the availability for this month has already been edited the maximum number of times")
	ErrAlreadyResolved   = errors.New("this exchange request has already been answered")
	ErrSelfExchange      = errors.New("a shift cannot be exchanged with yourself")
	ErrDuplicatePending  = errors.New("a pending exchange request for this shift already exists")
)
