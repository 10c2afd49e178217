package repository

import (
	"context"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (r *Repository) InsertExchangeRequest(request *domain.ExchangeRequest) error {
	query := `
		INSERT INTO exchange_requests (requester_email, target_email, date, shift)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{request.RequesterEmail, request.TargetEmail, request.Date, request.Shift}
	dst := []any{&request.ID, &request.Status, &request.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetExchangeRequestByID(id int64) (*domain.ExchangeRequest, error) {
	query := `
		SELECT requester_email, target_email, date, shift, status, created_at, resolved_at
		FROM exchange_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.ExchangeRequest{
		ID: id,
	}

	dst := []any{&request.RequesterEmail, &request.TargetEmail, &request.Date, &request.Shift, &request.Status, &request.CreatedAt, &request.ResolvedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) HasPendingExchangeRequest(requesterEmail, targetEmail, date, shift string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM exchange_requests
			WHERE requester_email = $1 AND target_email = $2 AND date = $3 AND shift = $4 AND status = $5
		)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var exists bool
	args := []any{requesterEmail, targetEmail, date, shift, domain.ExchangeStatusPending}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ResolveExchangeRequest performs the one-way pending -> accepted/rejected
// transition. The status guard lives in the statement itself so that two
// concurrent responses cannot both win; the loser gets sql.ErrNoRows.
func (r *Repository) ResolveExchangeRequest(id int64, status domain.ExchangeStatus) (*domain.ExchangeRequest, error) {
	query := `
		UPDATE exchange_requests
		SET status = $2, resolved_at = now()
		WHERE id = $1 AND status = $3
		RETURNING requester_email, target_email, date, shift, created_at, resolved_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.ExchangeRequest{
		ID:     id,
		Status: status,
	}

	dst := []any{&request.RequesterEmail, &request.TargetEmail, &request.Date, &request.Shift, &request.CreatedAt, &request.ResolvedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id, status, domain.ExchangeStatusPending).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

// ListPendingByTarget returns open requests aimed at a volunteer, oldest
// first. The frontend uses it to gate the pending-requests screen on login.
func (r *Repository) ListPendingByTarget(targetEmail string) ([]*domain.ExchangeRequest, error) {
	query := `
		SELECT id, requester_email, date, shift, status, created_at
		FROM exchange_requests
		WHERE target_email = $1 AND status = $2
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, targetEmail, domain.ExchangeStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.ExchangeRequest, 0)
	for rows.Next() {
		request := &domain.ExchangeRequest{
			TargetEmail: targetEmail,
		}

		dst := []any{&request.ID, &request.RequesterEmail, &request.Date, &request.Shift, &request.Status, &request.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
