package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftcalc/internal/models"
	"github.com/jackc/pgx/v5"
)

// BestEstimate returns the stored best for a lift in a cycle, or nil.
func (db *DB) BestEstimate(ctx context.Context, userID, cycle int, lift models.Lift) (*models.PersonalRecordRow, error) {
	r := models.PersonalRecordRow{UserID: userID, Cycle: cycle, Lift: lift}
	err := db.Pool.QueryRow(ctx,
		`SELECT estimate, weight_lbs, reps, recorded_at
		 FROM personal_records
		 WHERE user_id = $1 AND cycle = $2 AND lift = $3`,
		userID, cycle, string(lift)).Scan(&r.Estimate, &r.WeightLbs, &r.Reps, &r.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying personal record: %w", err)
	}
	return &r, nil
}

// UpsertBestEstimate stores a record. An existing row is only replaced by a
// strictly higher estimate.
func (db *DB) UpsertBestEstimate(ctx context.Context, row models.PersonalRecordRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO personal_records (user_id, cycle, lift, estimate, weight_lbs, reps, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, cycle, lift) DO UPDATE
			SET estimate = EXCLUDED.estimate,
			    weight_lbs = EXCLUDED.weight_lbs,
			    reps = EXCLUDED.reps,
			    recorded_at = EXCLUDED.recorded_at
			WHERE EXCLUDED.estimate > personal_records.estimate`,
		row.UserID, row.Cycle, string(row.Lift), row.Estimate, row.WeightLbs, row.Reps, row.RecordedAt)
	if err != nil {
		return fmt.Errorf("upserting personal record: %w", err)
	}
	return nil
}

// ListPersonalRecords returns every stored best for a user, newest cycle first.
func (db *DB) ListPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT cycle, lift, estimate, weight_lbs, reps, recorded_at
		 FROM personal_records
		 WHERE user_id = $1
		 ORDER BY cycle DESC, lift ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying personal records: %w", err)
	}
	defer rows.Close()

	var result []models.PersonalRecordRow
	for rows.Next() {
		r := models.PersonalRecordRow{UserID: userID}
		var lift string
		if err := rows.Scan(&r.Cycle, &lift, &r.Estimate, &r.WeightLbs, &r.Reps, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning personal record: %w", err)
		}
		r.Lift = models.Lift(lift)
		result = append(result, r)
	}
	return result, rows.Err()
}
