package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftcalc/internal/models"
	"github.com/jackc/pgx/v5"
)

const liftLogColumns = `id, user_id, cycle, week, lift, weight_lbs, reps,
	is_amrap, is_main, is_deload, estimated_max, performed_at`

// InsertLiftLog stores one logged set. Re-sending the same ID is a no-op.
func (db *DB) InsertLiftLog(ctx context.Context, row models.LiftLogRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO lift_logs (`+liftLogColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (id) DO NOTHING`,
		row.ID, row.UserID, row.Cycle, row.Week, string(row.Lift), row.WeightLbs, row.Reps,
		row.IsAMRAP, row.IsMain, row.IsDeload, row.EstimatedMax, row.PerformedAt)
	if err != nil {
		return fmt.Errorf("inserting lift log: %w", err)
	}
	return nil
}

// ListLiftLogs returns a user's logged sets for one cycle, oldest first.
// A cycle of zero or less returns every cycle.
func (db *DB) ListLiftLogs(ctx context.Context, userID, cycle int) ([]models.LiftLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+liftLogColumns+`
		 FROM lift_logs
		 WHERE user_id = $1 AND ($2 <= 0 OR cycle = $2)
		 ORDER BY cycle ASC, week ASC, performed_at ASC`,
		userID, cycle)
	if err != nil {
		return nil, fmt.Errorf("querying lift logs: %w", err)
	}
	defer rows.Close()

	var result []models.LiftLogRow
	for rows.Next() {
		r, err := scanLiftLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// LatestAmrap returns the most recent main-lift AMRAP set for a lift in a cycle, or
// nil when none was logged.
func (db *DB) LatestAmrap(ctx context.Context, userID int, lift models.Lift, cycle int) (*models.LiftLogRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+liftLogColumns+`
		 FROM lift_logs
		 WHERE user_id = $1 AND lift = $2 AND cycle = $3 AND is_amrap AND is_main AND NOT is_deload
		 ORDER BY performed_at DESC
		 LIMIT 1`,
		userID, string(lift), cycle)
	r, err := scanLiftLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanLiftLog(row pgx.Row) (models.LiftLogRow, error) {
	var r models.LiftLogRow
	var lift string
	err := row.Scan(&r.ID, &r.UserID, &r.Cycle, &r.Week, &lift, &r.WeightLbs, &r.Reps,
		&r.IsAMRAP, &r.IsMain, &r.IsDeload, &r.EstimatedMax, &r.PerformedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("scanning lift log: %w", err)
	}
	r.Lift = models.Lift(lift)
	return r, nil
}
