package training

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/google/uuid"
)

// LogRequest is one performed set.
type LogRequest struct {
	Cycle       int         `json:"cycle"`
	Week        int         `json:"week"`
	Lift        models.Lift `json:"lift"`
	Weight      float64     `json:"weight"`
	Reps        int         `json:"reps"`
	AMRAP       bool        `json:"amrap"`
	Accessory   bool        `json:"accessory"`
	PerformedAt time.Time   `json:"performed_at"`
}

// LogResult is the stored row plus the estimate and PR outcome.
type LogResult struct {
	Log          models.LiftLogRow   `json:"log"`
	Estimate     *calc.AmrapEstimate `json:"estimate,omitempty"`
	Note         string              `json:"note,omitempty"`
	PREstimate   float64             `json:"pr_estimate,omitempty"`
	IsPR         bool                `json:"is_pr"`
	PreviousBest float64             `json:"previous_best,omitempty"`
}

func (r LogRequest) validate() error {
	if !r.Lift.Valid() {
		return invalid("unknown lift %q", r.Lift)
	}
	if r.Cycle <= 0 {
		return invalid("cycle must be positive")
	}
	if r.Week < 1 || r.Week > calc.DeloadWeek {
		return invalid("week must be between 1 and %d", calc.DeloadWeek)
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) || r.Weight < 0 {
		return invalid("weight must be a finite non-negative number")
	}
	if r.Reps <= 0 {
		return invalid("reps must be positive")
	}
	return nil
}

// LogLift stores a set. Main-lift AMRAP sets outside the deload get a
// display estimate and are checked against the cycle's best.
func (s *Service) LogLift(ctx context.Context, userID int, req LogRequest) (*LogResult, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	performed := req.PerformedAt
	if performed.IsZero() {
		performed = s.now()
	}

	row := models.LiftLogRow{
		ID:          uuid.New(),
		UserID:      userID,
		Cycle:       req.Cycle,
		Week:        req.Week,
		Lift:        req.Lift,
		WeightLbs:   req.Weight,
		Reps:        req.Reps,
		IsAMRAP:     req.AMRAP,
		IsMain:      !req.Accessory,
		IsDeload:    req.Week == calc.DeloadWeek,
		PerformedAt: performed.UTC(),
	}
	result := &LogResult{}

	scored := row.IsAMRAP && row.IsMain && !row.IsDeload
	refused := false
	if scored {
		est := s.Estimate(row.WeightLbs, row.Reps)
		refused = est.Note.Kind == calc.NoteInvalidTooManyReps
		result.Estimate = &est
		result.Note = est.Note.Message()
		if est.E1RM > 0 {
			e1rm := est.E1RM
			row.EstimatedMax = &e1rm
		}
	}

	if err := s.store.InsertLiftLog(ctx, row); err != nil {
		return nil, fmt.Errorf("logging lift: %w", err)
	}
	result.Log = row

	if scored && !refused {
		if err := s.checkPR(ctx, row, result); err != nil {
			return nil, err
		}
	}

	s.log.Info("lift logged",
		"user", userID,
		"lift", row.Lift,
		"cycle", row.Cycle,
		"week", row.Week,
		"weight", row.WeightLbs,
		"reps", row.Reps,
		"pr", result.IsPR,
	)
	return result, nil
}

func (s *Service) checkPR(ctx context.Context, row models.LiftLogRow, result *LogResult) error {
	best, err := s.store.BestEstimate(ctx, row.UserID, row.Cycle, row.Lift)
	if err != nil {
		return fmt.Errorf("loading best estimate: %w", err)
	}
	var bestValue float64
	if best != nil {
		bestValue = best.Estimate
	}
	isPR, est := calc.IsNewPR(bestValue, row.WeightLbs, row.Reps, s.settings.PRFormula)
	result.PREstimate = est
	result.PreviousBest = bestValue
	if !isPR {
		return nil
	}
	result.IsPR = true
	err = s.store.UpsertBestEstimate(ctx, models.PersonalRecordRow{
		UserID:     row.UserID,
		Cycle:      row.Cycle,
		Lift:       row.Lift,
		Estimate:   est,
		WeightLbs:  row.WeightLbs,
		Reps:       row.Reps,
		RecordedAt: row.PerformedAt,
	})
	if err != nil {
		return fmt.Errorf("storing personal record: %w", err)
	}
	return nil
}

// History returns the logged sets for a cycle, or every cycle when cycle <= 0.
func (s *Service) History(ctx context.Context, userID, cycle int) ([]models.LiftLogRow, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	rows, err := s.store.ListLiftLogs(ctx, userID, cycle)
	if err != nil {
		return nil, fmt.Errorf("listing lift logs: %w", err)
	}
	return rows, nil
}

// Records returns every stored personal record.
func (s *Service) Records(ctx context.Context, userID int) ([]models.PersonalRecordRow, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	rows, err := s.store.ListPersonalRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing personal records: %w", err)
	}
	return rows, nil
}
