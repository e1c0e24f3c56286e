// Package program lays out full 5/3/1 cycles: warm-ups, main sets, jokers,
// Boring But Big supplemental work and accessories for every training day.
package program

import (
	"fmt"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
)

// KindWarmup marks warm-up sets, which are not part of the week scheme.
const KindWarmup calc.SetKind = "warmup"

// Set is one prescribed line of a training day. Sets is the number of
// identical sets (5 for BBB, 1 otherwise).
type Set struct {
	Exercise    string       `json:"exercise"`
	Kind        calc.SetKind `json:"kind"`
	Sets        int          `json:"sets"`
	Reps        int          `json:"reps"`
	AMRAP       bool         `json:"amrap,omitempty"`
	Weight      float64      `json:"weight"`
	PercentOfTM float64      `json:"percent_of_tm,omitempty"`
	Label       string       `json:"label"`
	Plates      []float64    `json:"plates_per_side"`
}

// RepsText renders reps with the AMRAP "+" suffix.
func (s Set) RepsText() string {
	if s.AMRAP {
		return fmt.Sprintf("%d+", s.Reps)
	}
	return fmt.Sprintf("%d", s.Reps)
}

// Day is one training day.
type Day struct {
	Week        int         `json:"week"`
	DayNum      int         `json:"day"`
	MainLift    models.Lift `json:"lift"`
	TrainingMax float64     `json:"training_max"`
	Scheme      string      `json:"scheme"`
	Sets        []Set       `json:"sets"`
	Jokers      []Set       `json:"jokers,omitempty"`
}

// Program is a full cycle.
type Program struct {
	Cycle         int                     `json:"cycle"`
	TrainingMaxes map[models.Lift]float64 `json:"training_maxes"`
	Days          []Day                   `json:"days"`
}

// Plan controls the cycle layout.
type Plan struct {
	Cycle     int
	LiftOrder []models.Lift
	// BBBPairing maps a day's main lift to the lift used for its 5x10.
	// Unpaired lifts use themselves.
	BBBPairing  map[models.Lift]models.Lift
	Accessories map[models.Lift]string
}

// DefaultPlan is one day per main lift with same-lift BBB and no accessories.
func DefaultPlan(cycle int) Plan {
	return Plan{Cycle: cycle, LiftOrder: models.MainLifts}
}

// Generate creates the four-week cycle. Lifts without a training max are skipped.
func Generate(s Settings, tms map[models.Lift]float64, plan Plan) *Program {
	order := plan.LiftOrder
	if len(order) == 0 {
		order = models.MainLifts
	}
	prog := &Program{
		Cycle:         plan.Cycle,
		TrainingMaxes: tms,
		Days:          make([]Day, 0, 4*len(order)),
	}

	for week := 1; week <= calc.DeloadWeek; week++ {
		for dayIdx, lift := range order {
			tm, ok := tms[lift]
			if !ok || tm <= 0 {
				continue
			}
			bbbLift := lift
			if paired, ok := plan.BBBPairing[lift]; ok && tms[paired] > 0 {
				bbbLift = paired
			}
			day := BuildDay(s, lift, week, tm, bbbLift, tms[bbbLift])
			day.DayNum = dayIdx + 1

			if accessory := plan.Accessories[lift]; accessory != "" && calc.WeekSchemeFor(week).IncludesAssistance {
				day.Sets = append(day.Sets, Set{
					Exercise: accessory,
					Kind:     calc.SetAssistance,
					Sets:     5,
					Reps:     10,
					Label:    "5 × 10",
				})
			}
			prog.Days = append(prog.Days, day)
		}
	}
	return prog
}

// BuildDay prescribes one day: a warm-up ramp up to the first working set,
// the three main sets, the BBB sets on non-deload weeks and the joker
// ladder for the 3s and 1s weeks.
func BuildDay(s Settings, lift models.Lift, week int, tm float64, bbbLift models.Lift, bbbTM float64) Day {
	scheme := calc.WeekSchemeFor(week)
	day := Day{
		Week:        scheme.Week,
		DayNum:      1,
		MainLift:    lift,
		TrainingMax: tm,
		Scheme:      scheme.Label,
	}
	name := lift.DisplayName()

	main := scheme.Prescriptions(tm, s.RoundTo)
	if len(main) > 0 {
		for _, w := range calc.PlanWarmup(main[0].Weight, s.Bar, s.RoundTo, lift) {
			day.Sets = append(day.Sets, Set{
				Exercise: name,
				Kind:     KindWarmup,
				Sets:     1,
				Reps:     w.Reps,
				Weight:   w.Weight,
				Label:    fmt.Sprintf("Warm-up %g × %d", w.Weight, w.Reps),
				Plates:   s.plates(w.Weight),
			})
		}
	}
	for _, p := range main {
		day.Sets = append(day.Sets, s.fromPrescription(name, 1, p))
	}

	if scheme.IncludesAssistance {
		if bbbTM <= 0 {
			bbbLift, bbbTM = lift, tm
		}
		bbb := calc.BBBPrescription(bbbTM, s.BBBPercent, s.RoundTo)
		day.Sets = append(day.Sets, s.fromPrescription(bbbLift.DisplayName(), 5, bbb))
	}

	for _, j := range calc.JokerLadder(tm, calc.JokerKindForWeek(scheme.Week), s.Jokers) {
		day.Jokers = append(day.Jokers, s.fromPrescription(name, 1, j))
	}
	return day
}

func (s Settings) fromPrescription(exercise string, sets int, p calc.SetPrescription) Set {
	return Set{
		Exercise:    exercise,
		Kind:        p.Kind,
		Sets:        sets,
		Reps:        p.Reps,
		AMRAP:       p.AMRAP,
		Weight:      p.Weight,
		PercentOfTM: p.PercentOfTM,
		Label:       p.Label,
		Plates:      s.plates(p.Weight),
	}
}

func (s Settings) plates(weight float64) []float64 {
	if s.Plates == nil {
		return []float64{}
	}
	return s.Plates.Plates(weight)
}
