package repository

import (
	"context"
	"time"
)

// GetSetting returns the raw string value for a system toggle; callers map
// sql.ErrNoRows to their own default.
func (r *Repository) GetSetting(key string) (string, error) {
	query := `
		SELECT value FROM settings WHERE key = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var value string
	if err := r.dbpool.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		return "", err
	}

	return value, nil
}

func (r *Repository) SetSetting(key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, key, value)
	if err != nil {
		return err
	}

	return nil
}
