package calc

import (
	"fmt"

	"github.com/claude/liftcalc/internal/models"
)

// ProgressionStyle selects how the next cycle's training max is computed.
type ProgressionStyle string

const (
	// ProgressionClassic adds a fixed bump per lift class.
	ProgressionClassic ProgressionStyle = "classic"
	// ProgressionAuto moves toward a percentage of the latest AMRAP estimate.
	ProgressionAuto ProgressionStyle = "auto"
)

// ParseProgressionStyle validates a style name.
func ParseProgressionStyle(s string) (ProgressionStyle, error) {
	switch st := ProgressionStyle(s); st {
	case ProgressionClassic, ProgressionAuto:
		return st, nil
	}
	return "", fmt.Errorf("unknown progression style %q", s)
}

const (
	DefaultAutoPercent = 90.0
	MinAutoPercent     = 80.0
	MaxAutoPercent     = 95.0
)

// ProgressionRules holds bump and cap amounts per lift class.
type ProgressionRules struct {
	UpperBump   float64
	LowerBump   float64
	UpperCap    float64
	LowerCap    float64
	AutoPercent float64
	RoundTo     float64
}

// DefaultProgressionRules is +5/+10 classic, 10/20 auto caps, 90% of estimate.
func DefaultProgressionRules(roundTo float64) ProgressionRules {
	return ProgressionRules{
		UpperBump:   5,
		LowerBump:   10,
		UpperCap:    10,
		LowerCap:    20,
		AutoPercent: DefaultAutoPercent,
		RoundTo:     roundTo,
	}
}

func (r ProgressionRules) bumpFor(class models.LiftClass) float64 {
	if class == models.LowerBody {
		return r.LowerBump
	}
	return r.UpperBump
}

func (r ProgressionRules) capFor(class models.LiftClass) float64 {
	if class == models.LowerBody {
		return r.LowerCap
	}
	return r.UpperCap
}

func (r ProgressionRules) autoPercent() float64 {
	pct := r.AutoPercent
	if !isFinite(pct) || pct <= 0 {
		return DefaultAutoPercent
	}
	return min(max(pct, MinAutoPercent), MaxAutoPercent)
}

// NextTrainingMax computes next cycle's training max. Classic always adds the
// class bump and ignores the estimate. Auto never lowers the training max:
// a missing (zero, negative or non-finite) estimate leaves it unchanged, and
// the increase toward the target is capped per class.
func NextTrainingMax(current, latestAmrapE1RM float64, style ProgressionStyle, class models.LiftClass, rules ProgressionRules) float64 {
	if style != ProgressionAuto {
		return current + rules.bumpFor(class)
	}

	if !isFinite(latestAmrapE1RM) || latestAmrapE1RM <= 0 {
		return current
	}

	target := Round(latestAmrapE1RM*rules.autoPercent()/100, rules.RoundTo)
	delta := min(max(target-current, 0), rules.capFor(class))
	return current + delta
}

// TrainingMaxFromOneRepMax returns pct percent of a true max, rounded.
func TrainingMaxFromOneRepMax(oneRepMax, pct, roundTo float64) float64 {
	if !isFinite(oneRepMax) || oneRepMax <= 0 {
		return 0
	}
	if !isFinite(pct) || pct <= 0 {
		pct = DefaultAutoPercent
	}
	return Round(oneRepMax*pct/100, roundTo)
}
