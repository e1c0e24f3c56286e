package training

import (
	"context"

	"github.com/claude/liftcalc/internal/logbook"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/storage"
)

// History supplies and records logged sets.
type History interface {
	InsertLiftLog(ctx context.Context, row models.LiftLogRow) error
	ListLiftLogs(ctx context.Context, userID, cycle int) ([]models.LiftLogRow, error)
	LatestAmrap(ctx context.Context, userID int, lift models.Lift, cycle int) (*models.LiftLogRow, error)
}

// Records holds the best PR-comparison estimate per cycle and lift.
type Records interface {
	BestEstimate(ctx context.Context, userID, cycle int, lift models.Lift) (*models.PersonalRecordRow, error)
	UpsertBestEstimate(ctx context.Context, row models.PersonalRecordRow) error
	ListPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error)
}

// TrainingMaxes holds the current training max per lift.
type TrainingMaxes interface {
	TrainingMaxes(ctx context.Context, userID int) ([]models.TrainingMaxRow, error)
	SetTrainingMax(ctx context.Context, row models.TrainingMaxRow) error
}

// Store is the full persistence surface. Both *storage.DB (PostgreSQL) and
// *logbook.Logbook (SQLite) satisfy it.
type Store interface {
	History
	Records
	TrainingMaxes
}

// Compile-time checks: both stores satisfy Store.
var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*logbook.Logbook)(nil)
)
