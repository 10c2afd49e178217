package repository

import (
	"context"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

// UpsertPublishedSchedule stores the official table for a month, replacing a
// previous publication of the same month.
func (r *Repository) UpsertPublishedSchedule(schedule *domain.PublishedSchedule) error {
	query := `
		INSERT INTO published_schedules (month, entries, published_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (month) DO UPDATE
		SET
			entries = EXCLUDED.entries,
			published_by = EXCLUDED.published_by,
			version = published_schedules.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.Month, []byte(schedule.Entries), schedule.PublishedBy}
	dst := []any{&schedule.ID, &schedule.CreatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPublishedSchedule(month string) (*domain.PublishedSchedule, error) {
	query := `
		SELECT id, entries, published_by, created_at, version
		FROM published_schedules WHERE month = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.PublishedSchedule{
		Month: month,
	}

	var entries []byte
	dst := []any{&schedule.ID, &entries, &schedule.PublishedBy, &schedule.CreatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, month).Scan(dst...); err != nil {
		return nil, err
	}
	schedule.Entries = entries

	return schedule, nil
}
