package models

import (
	"time"

	"github.com/google/uuid"
)

// LiftLogRow is a row for the lift_logs table.
type LiftLogRow struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"-"`
	Cycle        int       `json:"cycle"`
	Week         int       `json:"week"`
	Lift         Lift      `json:"lift"`
	WeightLbs    float64   `json:"weight"`
	Reps         int       `json:"reps"`
	IsAMRAP      bool      `json:"amrap"`
	IsMain       bool      `json:"main"`
	IsDeload     bool      `json:"deload"`
	EstimatedMax *float64  `json:"estimated_1rm,omitempty"`
	PerformedAt  time.Time `json:"performed_at"`
}

// PersonalRecordRow is the best PR-comparison estimate for one lift in one cycle.
type PersonalRecordRow struct {
	UserID     int       `json:"-"`
	Cycle      int       `json:"cycle"`
	Lift       Lift      `json:"lift"`
	Estimate   float64   `json:"estimate"`
	WeightLbs  float64   `json:"weight"`
	Reps       int       `json:"reps"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TrainingMaxRow is the current training max for a lift.
type TrainingMaxRow struct {
	UserID    int       `json:"-"`
	Lift      Lift      `json:"lift"`
	Cycle     int       `json:"cycle"`
	Value     float64   `json:"training_max"`
	UpdatedAt time.Time `json:"updated_at"`
}
