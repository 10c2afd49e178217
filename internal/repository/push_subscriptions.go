package repository

import (
	"context"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (r *Repository) InsertPushSubscription(subscription *domain.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{subscription.UserID, subscription.Endpoint, subscription.P256dh, subscription.Auth}
	dst := []any{&subscription.ID, &subscription.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPushSubscriptionsByEmail(email string) ([]*domain.PushSubscription, error) {
	query := `
		SELECT ps.id, ps.user_id, ps.endpoint, ps.p256dh, ps.auth, ps.created_at
		FROM push_subscriptions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscriptions := make([]*domain.PushSubscription, 0)
	for rows.Next() {
		subscription := &domain.PushSubscription{}
		dst := []any{&subscription.ID, &subscription.UserID, &subscription.Endpoint, &subscription.P256dh, &subscription.Auth, &subscription.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subscriptions, nil
}

func (r *Repository) DeletePushSubscription(userID int64, endpoint string) error {
	query := `
		DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, userID, endpoint)
	if err != nil {
		return err
	}

	return nil
}

// DeletePushSubscriptionByEndpoint drops subscriptions the push service
// reports as gone (HTTP 404/410).
func (r *Repository) DeletePushSubscriptionByEndpoint(endpoint string) error {
	query := `
		DELETE FROM push_subscriptions WHERE endpoint = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, endpoint)
	if err != nil {
		return err
	}

	return nil
}
