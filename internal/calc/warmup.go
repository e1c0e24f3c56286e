package calc

import (
	"slices"

	"github.com/claude/liftcalc/internal/models"
)

const (
	// MaxWarmupSteps caps a ramp, including the empty-bar step.
	MaxWarmupSteps = 4

	barStepReps = 10

	// Deadlifts at or above two plates start from 135 so plates sit at
	// standard pulling height.
	deadliftPlateStart     = 135.0
	deadliftPlateThreshold = 225.0

	narrowSpan    = 85.0
	mediumSpan    = 110.0
	sparseRampGap = 20.0
)

// warmupTouchpoints are the interior percentages of the work weight.
var warmupTouchpoints = []float64{0.40, 0.55, 0.70, 0.80, 0.90}

// WarmupStep is one warm-up set.
type WarmupStep struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// WarmupStart returns the weight a ramp begins from.
func WarmupStart(target, bar float64, lift models.Lift) float64 {
	if !isFinite(bar) || bar < 0 {
		bar = 0
	}
	if lift == models.Deadlift && target >= deadliftPlateThreshold {
		return deadliftPlateStart
	}
	return bar
}

// PlanWarmup builds an ascending warm-up ramp from the starting bar to just
// below target. Weights strictly increase, stay below target and the ramp
// never exceeds MaxWarmupSteps steps.
func PlanWarmup(target, bar, roundTo float64, lift models.Lift) []WarmupStep {
	start := WarmupStart(target, bar, lift)
	if !isFinite(target) || target <= start {
		return []WarmupStep{{Weight: start, Reps: barStepReps}}
	}

	// The bar is used as-is, even on coarse increments.
	first := WarmupStep{Weight: start, Reps: barStepReps}
	inRange := func(w float64) bool { return w > start && w < target }

	var candidates []float64
	for _, pct := range warmupTouchpoints {
		w := Round(target*pct, roundTo)
		if inRange(w) && !slices.Contains(candidates, w) {
			candidates = append(candidates, w)
		}
	}

	span := target - start
	var interior []float64
	switch {
	case span <= narrowSpan:
		mid := Round(start+span/2, roundTo)
		high := Round(target*0.90, roundTo)
		if high == mid {
			high = Round(high-roundIncrement(roundTo), roundTo)
		}
		for _, w := range []float64{mid, high} {
			if inRange(w) && !slices.Contains(interior, w) {
				interior = append(interior, w)
			}
		}
	case span <= mediumSpan:
		interior = spread(candidates, MaxWarmupSteps-1)
	default:
		interior = candidates
		if len(interior) > MaxWarmupSteps-1 {
			interior = spread(interior, MaxWarmupSteps-1)
		}
	}

	steps := []WarmupStep{first}
	for _, w := range interior {
		steps = append(steps, WarmupStep{Weight: w, Reps: warmupReps(w / target)})
	}
	steps = finalizeRamp(steps, target)

	if len(steps) == 1 && span >= sparseRampGap {
		mid := Round(start+span/2, roundTo)
		if !inRange(mid) {
			// Coarse increments can round the midpoint onto an endpoint.
			mid = start + span/2
		}
		if inRange(mid) {
			steps = append(steps, WarmupStep{Weight: mid, Reps: 3})
		}
	}
	return steps
}

// finalizeRamp sorts the steps, drops anything at or above target and keeps
// weights strictly increasing within the step ceiling.
func finalizeRamp(steps []WarmupStep, target float64) []WarmupStep {
	slices.SortStableFunc(steps, func(a, b WarmupStep) int {
		switch {
		case a.Weight < b.Weight:
			return -1
		case a.Weight > b.Weight:
			return 1
		}
		return 0
	})

	out := steps[:0]
	for _, s := range steps {
		if s.Weight >= target {
			continue
		}
		if len(out) > 0 && s.Weight <= out[len(out)-1].Weight {
			continue
		}
		out = append(out, s)
	}
	if len(out) > MaxWarmupSteps {
		out = out[:MaxWarmupSteps]
	}
	return out
}

// spread picks up to n values from an ascending list: the lowest, the
// highest and evenly spaced values between them.
func spread(values []float64, n int) []float64 {
	if len(values) <= n {
		return slices.Clone(values)
	}
	if n == 1 {
		return []float64{values[len(values)-1]}
	}
	out := make([]float64, 0, n)
	last := len(values) - 1
	for i := range n {
		idx := (i*last + (n-1)/2) / (n - 1)
		w := values[idx]
		if len(out) == 0 || out[len(out)-1] != w {
			out = append(out, w)
		}
	}
	return out
}

// warmupReps maps a weight-to-target ratio to a rep count.
func warmupReps(ratio float64) int {
	switch {
	case ratio < 0.50:
		return 8
	case ratio < 0.70:
		return 5
	case ratio < 0.82:
		return 3
	case ratio < 0.92:
		return 2
	default:
		return 1
	}
}

func roundIncrement(roundTo float64) float64 {
	if !isFinite(roundTo) || roundTo <= 0 {
		return fallbackIncrement
	}
	return roundTo
}
