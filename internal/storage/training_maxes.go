package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftcalc/internal/models"
)

// TrainingMaxes returns the current training max of every lift the user has set.
func (db *DB) TrainingMaxes(ctx context.Context, userID int) ([]models.TrainingMaxRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT lift, cycle, value, updated_at
		 FROM training_maxes
		 WHERE user_id = $1
		 ORDER BY lift ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying training maxes: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingMaxRow
	for rows.Next() {
		r := models.TrainingMaxRow{UserID: userID}
		var lift string
		if err := rows.Scan(&lift, &r.Cycle, &r.Value, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning training max: %w", err)
		}
		r.Lift = models.Lift(lift)
		result = append(result, r)
	}
	return result, rows.Err()
}

// SetTrainingMax inserts or replaces the training max for a lift.
func (db *DB) SetTrainingMax(ctx context.Context, row models.TrainingMaxRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO training_maxes (user_id, lift, cycle, value, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, lift) DO UPDATE
			SET cycle = EXCLUDED.cycle, value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		row.UserID, string(row.Lift), row.Cycle, row.Value, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("setting training max: %w", err)
	}
	return nil
}
