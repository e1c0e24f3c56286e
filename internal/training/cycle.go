package training

import (
	"context"
	"fmt"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
)

// WeekStatus reports completion of one week.
type WeekStatus struct {
	Week     int           `json:"week"`
	Complete bool          `json:"complete"`
	Missing  []models.Lift `json:"missing"`
}

// CycleStatus reports completion of a cycle under the configured policy.
type CycleStatus struct {
	Cycle         int          `json:"cycle"`
	IncludeDeload bool         `json:"include_deload"`
	Weeks         []WeekStatus `json:"weeks"`
	Completed     int          `json:"completed"`
	Expected      int          `json:"expected"`
	Complete      bool         `json:"complete"`
}

// Progression is the training max change for one lift.
type Progression struct {
	Lift     models.Lift           `json:"lift"`
	Style    calc.ProgressionStyle `json:"style"`
	Current  float64               `json:"current"`
	Estimate float64               `json:"estimate,omitempty"`
	Next     float64               `json:"next"`
	Applied  bool                  `json:"applied"`
}

// CycleStatus computes per-week and whole-cycle completion from history.
func (s *Service) CycleStatus(ctx context.Context, userID, cycle int) (*CycleStatus, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if cycle <= 0 {
		return nil, invalid("cycle must be positive")
	}
	logs, err := s.store.ListLiftLogs(ctx, userID, cycle)
	if err != nil {
		return nil, fmt.Errorf("listing lift logs: %w", err)
	}

	mains := s.settings.Mains
	policy := s.settings.Cycle
	expected := calc.ExpectedKeys(mains, policy)
	completed := calc.CompletedKeys(logs, cycle, mains, policy, calc.LiftLogAccessors)

	status := &CycleStatus{
		Cycle:         cycle,
		IncludeDeload: policy.IncludeDeload,
		Completed:     len(completed),
		Expected:      len(expected),
		Complete:      calc.IsCycleComplete(logs, cycle, mains, policy, calc.LiftLogAccessors),
	}
	weeks := []int{1, 2, 3}
	if policy.IncludeDeload {
		weeks = append(weeks, calc.DeloadWeek)
	}
	for _, week := range weeks {
		ws := WeekStatus{Week: week, Missing: []models.Lift{}}
		for _, lift := range mains {
			if _, ok := completed[calc.WeekLift{Week: week, Lift: lift}]; !ok {
				ws.Missing = append(ws.Missing, lift)
			}
		}
		ws.Complete = len(ws.Missing) == 0
		status.Weeks = append(status.Weeks, ws)
	}
	return status, nil
}

// TrainingMaxes returns the stored training maxes keyed by lift.
func (s *Service) TrainingMaxes(ctx context.Context, userID int) (map[models.Lift]models.TrainingMaxRow, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	rows, err := s.store.TrainingMaxes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading training maxes: %w", err)
	}
	out := make(map[models.Lift]models.TrainingMaxRow, len(rows))
	for _, r := range rows {
		out[r.Lift] = r
	}
	return out, nil
}

// SetTrainingMax stores a training max. When oneRepMax is true, value is a
// tested max and the stored TM is derived from it with the auto percentage.
func (s *Service) SetTrainingMax(ctx context.Context, userID int, lift models.Lift, cycle int, value float64, oneRepMax bool) (*models.TrainingMaxRow, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if !lift.Valid() {
		return nil, invalid("unknown lift %q", lift)
	}
	if cycle <= 0 {
		return nil, invalid("cycle must be positive")
	}
	if oneRepMax {
		value = calc.TrainingMaxFromOneRepMax(value, s.settings.Rules.AutoPercent, s.settings.RoundTo)
	}
	if !(value > 0) {
		return nil, invalid("training max must be positive")
	}
	row := models.TrainingMaxRow{
		UserID:    userID,
		Lift:      lift,
		Cycle:     cycle,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.SetTrainingMax(ctx, row); err != nil {
		return nil, fmt.Errorf("storing training max: %w", err)
	}
	return &row, nil
}

// NextTrainingMax computes the next-cycle training max for a lift from its
// stored TM and the latest AMRAP estimate of the given cycle.
func (s *Service) NextTrainingMax(ctx context.Context, userID int, lift models.Lift, cycle int) (*Progression, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if !lift.Valid() {
		return nil, invalid("unknown lift %q", lift)
	}
	tms, err := s.TrainingMaxes(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, ok := tms[lift]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoTrainingMax, lift)
	}
	return s.progression(ctx, userID, current, cycle)
}

func (s *Service) progression(ctx context.Context, userID int, current models.TrainingMaxRow, cycle int) (*Progression, error) {
	latest, err := s.store.LatestAmrap(ctx, userID, current.Lift, cycle)
	if err != nil {
		return nil, fmt.Errorf("loading latest amrap: %w", err)
	}
	var estimate float64
	if latest != nil {
		if latest.EstimatedMax != nil {
			estimate = *latest.EstimatedMax
		} else {
			estimate = s.Estimate(latest.WeightLbs, latest.Reps).E1RM
		}
	}
	return &Progression{
		Lift:     current.Lift,
		Style:    s.settings.Style,
		Current:  current.Value,
		Estimate: estimate,
		Next:     s.Progress(current.Lift, current.Value, estimate),
	}, nil
}

// AdvanceCycle applies progression to every main lift once the cycle is
// complete and stores the new maxes against the next cycle. Lifts already
// advanced past cycle are reported unchanged, so repeating the call is safe.
func (s *Service) AdvanceCycle(ctx context.Context, userID, cycle int) ([]Progression, error) {
	status, err := s.CycleStatus(ctx, userID, cycle)
	if err != nil {
		return nil, err
	}
	if !status.Complete {
		return nil, fmt.Errorf("%w: %d of %d sessions logged", ErrCycleIncomplete, status.Completed, status.Expected)
	}
	tms, err := s.TrainingMaxes(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []Progression
	for _, lift := range s.settings.Mains {
		current, ok := tms[lift]
		if !ok {
			continue
		}
		if current.Cycle > cycle {
			out = append(out, Progression{Lift: lift, Style: s.settings.Style, Current: current.Value, Next: current.Value})
			continue
		}
		p, err := s.progression(ctx, userID, current, cycle)
		if err != nil {
			return nil, err
		}
		if _, err := s.SetTrainingMax(ctx, userID, lift, cycle+1, p.Next, false); err != nil {
			return nil, err
		}
		p.Applied = true
		out = append(out, *p)
	}
	s.log.Info("cycle advanced", "user", userID, "cycle", cycle, "lifts", len(out))
	return out, nil
}

// PlanDay prescribes a day from the stored training max.
func (s *Service) PlanDay(ctx context.Context, userID int, lift models.Lift, week int) (*program.Day, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if !lift.Valid() {
		return nil, invalid("unknown lift %q", lift)
	}
	tms, err := s.TrainingMaxes(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, ok := tms[lift]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoTrainingMax, lift)
	}
	day := s.BuildDay(lift, week, current.Value)
	return &day, nil
}

// Program generates the full cycle from the stored training maxes.
func (s *Service) Program(ctx context.Context, userID, cycle int, plan program.Plan) (*program.Program, error) {
	tms, err := s.TrainingMaxes(ctx, userID)
	if err != nil {
		return nil, err
	}
	values := make(map[models.Lift]float64, len(tms))
	for lift, row := range tms {
		values[lift] = row.Value
	}
	if len(values) == 0 {
		return nil, ErrNoTrainingMax
	}
	if missing := s.missingLifts(tms); len(missing) > 0 {
		s.log.Warn("lifts without a training max skipped", "lifts", missing)
	}
	plan.Cycle = cycle
	return program.Generate(s.settings, values, plan), nil
}

// missingLifts lists mains without a training max, in day order.
func (s *Service) missingLifts(tms map[models.Lift]models.TrainingMaxRow) []models.Lift {
	var out []models.Lift
	for _, lift := range s.settings.Mains {
		if _, ok := tms[lift]; !ok {
			out = append(out, lift)
		}
	}
	return out
}
