// Package logbook is a single-user SQLite store for running the MCP tools
// locally without a PostgreSQL server.
package logbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftcalc/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS lift_logs (
	id            TEXT PRIMARY KEY,
	user_id       INTEGER NOT NULL,
	cycle         INTEGER NOT NULL,
	week          INTEGER NOT NULL,
	lift          TEXT NOT NULL,
	weight_lbs    REAL NOT NULL,
	reps          INTEGER NOT NULL,
	is_amrap      INTEGER NOT NULL DEFAULT 0,
	is_main       INTEGER NOT NULL DEFAULT 1,
	is_deload     INTEGER NOT NULL DEFAULT 0,
	estimated_max REAL,
	performed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lift_logs_user_cycle ON lift_logs (user_id, cycle);

CREATE TABLE IF NOT EXISTS personal_records (
	user_id     INTEGER NOT NULL,
	cycle       INTEGER NOT NULL,
	lift        TEXT NOT NULL,
	estimate    REAL NOT NULL,
	weight_lbs  REAL NOT NULL,
	reps        INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, cycle, lift)
);

CREATE TABLE IF NOT EXISTS training_maxes (
	user_id    INTEGER NOT NULL,
	lift       TEXT NOT NULL,
	cycle      INTEGER NOT NULL,
	value      REAL NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, lift)
)`

// Logbook stores lift history, records and training maxes in SQLite.
type Logbook struct {
	db *sql.DB
}

// Open opens (or creates) the logbook database at dir/logbook.db.
func Open(dir string) (*Logbook, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logbook dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "logbook.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening logbook: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logbook tables: %w", err)
	}
	return &Logbook{db: db}, nil
}

// Close closes the logbook database.
func (l *Logbook) Close() error {
	return l.db.Close()
}

// InsertLiftLog stores one logged set.
func (l *Logbook) InsertLiftLog(ctx context.Context, row models.LiftLogRow) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO lift_logs (id, user_id, cycle, week, lift, weight_lbs, reps,
			is_amrap, is_main, is_deload, estimated_max, performed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.UserID, row.Cycle, row.Week, string(row.Lift), row.WeightLbs, row.Reps,
		row.IsAMRAP, row.IsMain, row.IsDeload, row.EstimatedMax, row.PerformedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting lift log: %w", err)
	}
	return nil
}

const selectLiftLog = `SELECT id, user_id, cycle, week, lift, weight_lbs, reps,
	is_amrap, is_main, is_deload, estimated_max, performed_at FROM lift_logs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLiftLog(s rowScanner) (models.LiftLogRow, error) {
	var (
		r    models.LiftLogRow
		id   string
		lift string
		est  sql.NullFloat64
	)
	if err := s.Scan(&id, &r.UserID, &r.Cycle, &r.Week, &lift, &r.WeightLbs, &r.Reps,
		&r.IsAMRAP, &r.IsMain, &r.IsDeload, &est, &r.PerformedAt); err != nil {
		return r, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return r, fmt.Errorf("parsing lift log id %q: %w", id, err)
	}
	r.ID = parsed
	r.Lift = models.Lift(lift)
	if est.Valid {
		v := est.Float64
		r.EstimatedMax = &v
	}
	return r, nil
}

// ListLiftLogs returns a user's sets for a cycle, or every cycle when cycle <= 0.
func (l *Logbook) ListLiftLogs(ctx context.Context, userID, cycle int) ([]models.LiftLogRow, error) {
	rows, err := l.db.QueryContext(ctx,
		selectLiftLog+` WHERE user_id = ? AND (? <= 0 OR cycle = ?)
		 ORDER BY cycle ASC, week ASC, performed_at ASC`,
		userID, cycle, cycle)
	if err != nil {
		return nil, fmt.Errorf("querying lift logs: %w", err)
	}
	defer rows.Close()

	var result []models.LiftLogRow
	for rows.Next() {
		r, err := scanLiftLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lift log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// LatestAmrap returns the most recent non-deload main-lift AMRAP set, or nil.
func (l *Logbook) LatestAmrap(ctx context.Context, userID int, lift models.Lift, cycle int) (*models.LiftLogRow, error) {
	row := l.db.QueryRowContext(ctx,
		selectLiftLog+` WHERE user_id = ? AND lift = ? AND cycle = ? AND is_amrap = 1 AND is_main = 1 AND is_deload = 0
		 ORDER BY performed_at DESC LIMIT 1`,
		userID, string(lift), cycle)
	r, err := scanLiftLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest amrap: %w", err)
	}
	return &r, nil
}

// BestEstimate returns the stored best for a lift in a cycle, or nil.
func (l *Logbook) BestEstimate(ctx context.Context, userID, cycle int, lift models.Lift) (*models.PersonalRecordRow, error) {
	r := models.PersonalRecordRow{UserID: userID, Cycle: cycle, Lift: lift}
	err := l.db.QueryRowContext(ctx,
		`SELECT estimate, weight_lbs, reps, recorded_at FROM personal_records
		 WHERE user_id = ? AND cycle = ? AND lift = ?`,
		userID, cycle, string(lift)).Scan(&r.Estimate, &r.WeightLbs, &r.Reps, &r.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying personal record: %w", err)
	}
	return &r, nil
}

// UpsertBestEstimate stores a record, replacing only a lower estimate.
func (l *Logbook) UpsertBestEstimate(ctx context.Context, row models.PersonalRecordRow) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO personal_records (user_id, cycle, lift, estimate, weight_lbs, reps, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, cycle, lift) DO UPDATE
			SET estimate = excluded.estimate,
			    weight_lbs = excluded.weight_lbs,
			    reps = excluded.reps,
			    recorded_at = excluded.recorded_at
			WHERE excluded.estimate > personal_records.estimate`,
		row.UserID, row.Cycle, string(row.Lift), row.Estimate, row.WeightLbs, row.Reps, row.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("upserting personal record: %w", err)
	}
	return nil
}

// ListPersonalRecords returns every stored best for a user.
func (l *Logbook) ListPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT cycle, lift, estimate, weight_lbs, reps, recorded_at FROM personal_records
		 WHERE user_id = ? ORDER BY cycle DESC, lift ASC`, userID)
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

// TrainingMaxes returns every stored training max for a user.
func (l *Logbook) TrainingMaxes(ctx context.Context, userID int) ([]models.TrainingMaxRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT lift, cycle, value, updated_at FROM training_maxes
		 WHERE user_id = ? ORDER BY lift ASC`, userID)
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
func (l *Logbook) SetTrainingMax(ctx context.Context, row models.TrainingMaxRow) error {
	updated := row.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO training_maxes (user_id, lift, cycle, value, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		row.UserID, string(row.Lift), row.Cycle, row.Value, updated.UTC())
	if err != nil {
		return fmt.Errorf("setting training max: %w", err)
	}
	return nil
}
