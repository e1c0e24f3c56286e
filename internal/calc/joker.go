package calc

import (
	"fmt"
	"math"
)

// JokerWeekKind is the rep target of the week a joker ladder is built for.
type JokerWeekKind string

const (
	JokerNone  JokerWeekKind = ""
	JokerFive  JokerWeekKind = "five"
	JokerThree JokerWeekKind = "three"
	JokerOne   JokerWeekKind = "one"
)

const (
	// jokerCeiling is the absolute highest joker, as a fraction of the TM.
	jokerCeiling = 1.20
	jokerEpsilon = 1e-9
	// maxJokerRungs bounds the ladder for tiny step sizes.
	maxJokerRungs = 64
)

// JokerKindForWeek maps a program week to its joker ladder. The deload week
// gets none.
func JokerKindForWeek(week int) JokerWeekKind {
	switch WeekSchemeFor(week).Week {
	case 2:
		return JokerThree
	case 3:
		return JokerOne
	case DeloadWeek:
		return JokerNone
	default:
		return JokerFive
	}
}

// JokerParams controls ladder generation.
type JokerParams struct {
	TripleStepPct float64
	SingleStepPct float64
	MaxOverTMPct  float64
	RoundTo       float64
}

// DefaultJokerParams steps triples by 5% and singles by 10%, up to 10% over TM.
func DefaultJokerParams(roundTo float64) JokerParams {
	return JokerParams{
		TripleStepPct: 0.05,
		SingleStepPct: 0.10,
		MaxOverTMPct:  0.10,
		RoundTo:       roundTo,
	}
}

// JokerLadder returns every joker rung for a week. Five-rep weeks, the deload
// and invalid training maxes get an empty ladder.
func JokerLadder(trainingMax float64, kind JokerWeekKind, p JokerParams) []SetPrescription {
	if !isFinite(trainingMax) || trainingMax <= 0 {
		return nil
	}

	var start, step float64
	var reps int
	switch kind {
	case JokerThree:
		start, step, reps = 0.95, p.TripleStepPct, 3
		if !isFinite(step) || step <= 0 {
			step = 0.05
		}
	case JokerOne:
		start, step, reps = 1.00, p.SingleStepPct, 1
		if !isFinite(step) || step <= 0 {
			step = 0.10
		}
	default:
		return nil
	}

	over := p.MaxOverTMPct
	if !isFinite(over) {
		over = 0
	}
	limit := math.Min(1+over, jokerCeiling) + jokerEpsilon

	var ladder []SetPrescription
	for i := 0; i < maxJokerRungs; i++ {
		pct := roundPct(start + float64(i)*step)
		if pct > limit {
			break
		}
		ladder = append(ladder, SetPrescription{
			Kind:        SetJoker,
			PercentOfTM: pct,
			Reps:        reps,
			Weight:      Round(trainingMax*pct, p.RoundTo),
			Label:       fmt.Sprintf("Joker %.0f%% × %d", pct*100, reps),
		})
	}
	return ladder
}

// NextJoker returns the rung after the last performed one. With nothing
// performed it returns the first rung. It returns false when the last
// performed set is not on the ladder or was the final rung.
func NextJoker(trainingMax float64, kind JokerWeekKind, p JokerParams, performed []SetPrescription) (SetPrescription, bool) {
	ladder := JokerLadder(trainingMax, kind, p)
	if len(ladder) == 0 {
		return SetPrescription{}, false
	}
	if len(performed) == 0 {
		return ladder[0], true
	}

	last := performed[len(performed)-1]
	for i, rung := range ladder {
		if rung.Reps == last.Reps && math.Abs(rung.PercentOfTM-last.PercentOfTM) < 1e-6 {
			if i+1 < len(ladder) {
				return ladder[i+1], true
			}
			return SetPrescription{}, false
		}
	}
	return SetPrescription{}, false
}

// roundPct trims float noise from an accumulated percentage.
func roundPct(pct float64) float64 {
	return math.Round(pct*1e6) / 1e6
}
