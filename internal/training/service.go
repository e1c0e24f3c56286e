// Package training composes the calculation engine with lift history,
// personal records and training maxes.
package training

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
)

var (
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoStore is returned by operations that need persistence when the
	// service was built without a store.
	ErrNoStore = errors.New("no store configured")
	// ErrNoTrainingMax is returned when a lift has no stored training max.
	ErrNoTrainingMax = errors.New("no training max set")
	// ErrCycleIncomplete is returned when advancing a cycle that still has
	// missing main-lift sessions.
	ErrCycleIncomplete = errors.New("cycle incomplete")
)

// Service exposes the engine and the persistence-backed operations.
type Service struct {
	store    Store
	settings program.Settings
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. store may be nil, in which case only the
// pure calculations are available.
func NewService(store Store, settings program.Settings, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// Settings returns the engine settings.
func (s *Service) Settings() program.Settings {
	return s.settings
}

// PlateLoad is a weight with its per-side plate breakdown.
type PlateLoad struct {
	Target  float64   `json:"target"`
	Bar     float64   `json:"bar"`
	PerSide []float64 `json:"plates_per_side"`
	Loaded  float64   `json:"loaded"`
}

// Plates decomposes target on the configured bar, or on bar when positive.
func (s *Service) Plates(target, bar float64) PlateLoad {
	if bar <= 0 || math.IsNaN(bar) {
		bar = s.settings.Bar
	}
	perSide := s.settings.Plates.PlatesForBar(target, bar)
	return PlateLoad{
		Target:  target,
		Bar:     bar,
		PerSide: perSide,
		Loaded:  calc.Loaded(perSide, bar),
	}
}

// Warmup plans the ramp up to target.
func (s *Service) Warmup(target float64, lift models.Lift) []calc.WarmupStep {
	return calc.PlanWarmup(target, s.settings.Bar, s.settings.RoundTo, lift)
}

// WarmupSet is a warm-up step with its plates.
type WarmupSet struct {
	calc.WarmupStep
	Plates []float64 `json:"plates_per_side"`
}

// WarmupPlates plans the ramp and loads each step on the configured bar.
func (s *Service) WarmupPlates(target float64, lift models.Lift) []WarmupSet {
	steps := s.Warmup(target, lift)
	out := make([]WarmupSet, 0, len(steps))
	for _, step := range steps {
		out = append(out, WarmupSet{WarmupStep: step, Plates: s.settings.Plates.Plates(step.Weight)})
	}
	return out
}

// WeekSets prescribes a week's main sets for a training max, followed by BBB
// on weeks that include assistance.
func (s *Service) WeekSets(week int, trainingMax float64) []calc.SetPrescription {
	scheme := calc.WeekSchemeFor(week)
	sets := scheme.Prescriptions(trainingMax, s.settings.RoundTo)
	if scheme.IncludesAssistance {
		sets = append(sets, calc.BBBPrescription(trainingMax, s.settings.BBBPercent, s.settings.RoundTo))
	}
	return sets
}

// Estimate returns the display estimate for a set.
func (s *Service) Estimate(weight float64, reps int) calc.AmrapEstimate {
	return calc.EstimateOneRepMax(weight, reps, s.settings.Formula, s.settings.Estimate)
}

// Jokers returns the joker ladder for a week.
func (s *Service) Jokers(trainingMax float64, week int) []calc.SetPrescription {
	return calc.JokerLadder(trainingMax, calc.JokerKindForWeek(week), s.settings.Jokers)
}

// NextJoker returns the rung after the performed ones.
func (s *Service) NextJoker(trainingMax float64, week int, performed []calc.SetPrescription) (calc.SetPrescription, bool) {
	return calc.NextJoker(trainingMax, calc.JokerKindForWeek(week), s.settings.Jokers, performed)
}

// Progress applies the configured progression style to one lift.
func (s *Service) Progress(lift models.Lift, current, estimate float64) float64 {
	return calc.NextTrainingMax(current, estimate, s.settings.Style, lift.Class(), s.settings.Rules)
}

// BuildDay prescribes a day from an explicit training max.
func (s *Service) BuildDay(lift models.Lift, week int, trainingMax float64) program.Day {
	return program.BuildDay(s.settings, lift, week, trainingMax, lift, trainingMax)
}

func (s *Service) requireStore() error {
	if s.store == nil {
		return ErrNoStore
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
