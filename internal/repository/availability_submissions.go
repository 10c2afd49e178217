package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

// UpsertAvailabilitySubmission creates the submission on the first save and
// overwrites it on later saves, bumping edit_count each time. The edit cap is
// enforced inside the statement so two concurrent saves cannot both slip past
// it; no matching row means the cap was hit.
func (r *Repository) UpsertAvailabilitySubmission(submission *domain.AvailabilitySubmission) error {
	dates, err := json.Marshal(submission.Dates)
	if err != nil {
		return err
	}
	overnights, err := json.Marshal(submission.Overnights)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO availability_submissions (user_id, month, dates, overnights)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, month) DO UPDATE
		SET
			dates = EXCLUDED.dates,
			overnights = EXCLUDED.overnights,
			edit_count = availability_submissions.edit_count + 1,
			submitted_at = now(),
			version = availability_submissions.version + 1
		WHERE availability_submissions.edit_count < $5
		RETURNING id, edit_count, submitted_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{submission.UserID, submission.Month, dates, overnights, domain.MaxSubmissionEdits}
	dst := []any{&submission.ID, &submission.EditCount, &submission.SubmittedAt, &submission.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEditLimitExceeded
		}
		return err
	}

	return nil
}

func (r *Repository) GetAvailabilitySubmission(userID int64, month string) (*domain.AvailabilitySubmission, error) {
	query := `
		SELECT id, dates, overnights, edit_count, submitted_at, version
		FROM availability_submissions
		WHERE user_id = $1 AND month = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	submission := &domain.AvailabilitySubmission{
		UserID: userID,
		Month:  month,
	}

	var dates, overnights []byte
	dst := []any{&submission.ID, &dates, &overnights, &submission.EditCount, &submission.SubmittedAt, &submission.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, month).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dates, &submission.Dates); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(overnights, &submission.Overnights); err != nil {
		return nil, err
	}

	return submission, nil
}

func (r *Repository) GetAllSubmissionsByMonth(month string) ([]*domain.AvailabilitySubmission, error) {
	query := `
		SELECT id, user_id, dates, overnights, edit_count, submitted_at, version
		FROM availability_submissions
		WHERE month = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]*domain.AvailabilitySubmission, 0)
	for rows.Next() {
		submission := &domain.AvailabilitySubmission{
			Month: month,
		}

		var dates, overnights []byte
		dst := []any{&submission.ID, &submission.UserID, &dates, &overnights, &submission.EditCount, &submission.SubmittedAt, &submission.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(dates, &submission.Dates); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(overnights, &submission.Overnights); err != nil {
			return nil, err
		}

		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
