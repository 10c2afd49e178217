package repository

import (
	"context"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (r *Repository) InsertAnnouncement(announcement *domain.Announcement) error {
	query := `
		INSERT INTO announcements (title, content, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{announcement.Title, announcement.Content, announcement.StartDate, announcement.EndDate}
	dst := []any{&announcement.ID, &announcement.CreatedAt, &announcement.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetActiveAnnouncements returns announcements whose visibility window
// contains the given instant.
func (r *Repository) GetActiveAnnouncements(now time.Time) ([]*domain.Announcement, error) {
	query := `
		SELECT id, title, content, start_date, end_date, created_at, version
		FROM announcements
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date DESC
	`

	return r.queryAnnouncements(query, now)
}

func (r *Repository) GetAllAnnouncements() ([]*domain.Announcement, error) {
	query := `
		SELECT id, title, content, start_date, end_date, created_at, version
		FROM announcements
		ORDER BY start_date DESC
	`

	return r.queryAnnouncements(query)
}

func (r *Repository) queryAnnouncements(query string, args ...any) ([]*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*domain.Announcement, 0)
	for rows.Next() {
		announcement := &domain.Announcement{}
		dst := []any{&announcement.ID, &announcement.Title, &announcement.Content, &announcement.StartDate, &announcement.EndDate, &announcement.CreatedAt, &announcement.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *Repository) DeleteAnnouncement(id int64) error {
	query := `
		DELETE FROM announcements WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
