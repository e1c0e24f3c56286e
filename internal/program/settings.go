package program

import (
	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/config"
	"github.com/claude/liftcalc/internal/models"
)

// Settings bundles the engine parameters derived from the training config.
// The plate calculator is shared by copies and is safe for concurrent use.
type Settings struct {
	Bar        float64
	RoundTo    float64
	BBBPercent float64
	Plates     *calc.PlateCalculator
	Style      calc.ProgressionStyle
	Rules      calc.ProgressionRules
	Jokers     calc.JokerParams
	Estimate   calc.EstimatePolicy
	Formula    calc.Formula
	PRFormula  calc.Formula
	Cycle      calc.CyclePolicy
	Mains      []models.Lift
}

// SettingsFromConfig converts a validated training config.
func SettingsFromConfig(tc config.TrainingConfig) Settings {
	return Settings{
		Bar:        tc.BarWeight,
		RoundTo:    tc.RoundTo,
		BBBPercent: tc.BBBPercent,
		Plates:     calc.NewPlateCalculator(tc.BarWeight, tc.RoundTo, calc.NewPlateInventory(tc.Plates)),
		Style:      calc.ProgressionStyle(tc.ProgressionStyle),
		Rules: calc.ProgressionRules{
			UpperBump:   tc.UpperBump,
			LowerBump:   tc.LowerBump,
			UpperCap:    tc.UpperCap,
			LowerCap:    tc.LowerCap,
			AutoPercent: tc.AutoTMPercent,
			RoundTo:     tc.RoundTo,
		},
		Jokers: calc.JokerParams{
			TripleStepPct: tc.JokerTripleStepPct,
			SingleStepPct: tc.JokerSingleStepPct,
			MaxOverTMPct:  tc.JokerMaxOverTMPct,
			RoundTo:       tc.RoundTo,
		},
		Estimate: calc.EstimatePolicy{
			SoftWarnAt:         tc.Estimate.SoftWarnAt,
			HardCap:            tc.Estimate.HardCap,
			RefuseAboveHardCap: tc.Estimate.Refuse(),
			RoundTo:            tc.RoundTo,
		},
		Formula:   calc.Formula(tc.Estimate.Formula),
		PRFormula: calc.Formula(tc.Estimate.PRFormula),
		Cycle:     calc.CyclePolicy{IncludeDeload: tc.IncludeDeload},
		Mains:     models.MainLifts,
	}
}

// DefaultSettings returns the settings for the default training config.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultTraining())
}
