package calc

import (
	"encoding/json"
	"fmt"
	"math"
)

// Formula names a one-rep-max estimation formula.
type Formula string

const (
	// Display formulas.
	FormulaEpley   Formula = "epley"
	FormulaWendler Formula = "wendler"

	// PR comparison formulas (FormulaEpley is shared).
	FormulaBrzycki  Formula = "brzycki"
	FormulaLombardi Formula = "lombardi"
)

// ParseFormula returns the formula for a name, or an error if unknown.
func ParseFormula(s string) (Formula, error) {
	switch f := Formula(s); f {
	case FormulaEpley, FormulaWendler, FormulaBrzycki, FormulaLombardi:
		return f, nil
	}
	return "", fmt.Errorf("unknown formula %q", s)
}

// NoteKind classifies how much an estimate can be trusted.
type NoteKind int

const (
	NoteNone NoteKind = iota
	NoteLowConfidence
	NoteCapped
	NoteInvalidTooManyReps
)

var noteKindNames = map[NoteKind]string{
	NoteNone:               "none",
	NoteLowConfidence:      "low_confidence",
	NoteCapped:             "capped",
	NoteInvalidTooManyReps: "invalid_too_many_reps",
}

func (k NoteKind) String() string {
	if name, ok := noteKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NoteKind(%d)", int(k))
}

// EstimateNote qualifies an estimate. Reps carries the cap used for
// NoteCapped and the reported reps for NoteInvalidTooManyReps.
type EstimateNote struct {
	Kind NoteKind
	Reps int
}

func (n EstimateNote) MarshalJSON() ([]byte, error) {
	v := struct {
		Kind string `json:"kind"`
		Reps int    `json:"reps,omitempty"`
	}{Kind: n.Kind.String(), Reps: n.Reps}
	return json.Marshal(v)
}

// Message is a short user-facing explanation, empty for NoteNone.
func (n EstimateNote) Message() string {
	switch n.Kind {
	case NoteLowConfidence:
		return "High-rep set: estimate is less reliable"
	case NoteCapped:
		return fmt.Sprintf("Estimate computed as if %d reps were performed", n.Reps)
	case NoteInvalidTooManyReps:
		return fmt.Sprintf("%d reps is too many to estimate a max from", n.Reps)
	}
	return ""
}

// AmrapEstimate is a display estimate of a true one-rep max.
type AmrapEstimate struct {
	E1RM float64      `json:"estimated_1rm"`
	Note EstimateNote `json:"note"`
}

// EstimatePolicy controls confidence banding and the hard rep ceiling.
type EstimatePolicy struct {
	SoftWarnAt         int
	HardCap            int
	RefuseAboveHardCap bool
	RoundTo            float64
}

// DefaultEstimatePolicy warns from 11 reps and refuses above 15.
func DefaultEstimatePolicy(roundTo float64) EstimatePolicy {
	return EstimatePolicy{
		SoftWarnAt:         11,
		HardCap:            15,
		RefuseAboveHardCap: true,
		RoundTo:            roundTo,
	}
}

// EstimateOneRepMax produces the display estimate for a set. Only epley and
// wendler are display formulas; anything else is estimated with epley.
func EstimateOneRepMax(weight float64, reps int, formula Formula, policy EstimatePolicy) AmrapEstimate {
	if !isFinite(weight) || weight <= 0 || reps <= 0 {
		return AmrapEstimate{}
	}
	if reps == 1 {
		return AmrapEstimate{E1RM: Round(weight, policy.RoundTo)}
	}

	if reps > policy.HardCap {
		if policy.RefuseAboveHardCap {
			return AmrapEstimate{Note: EstimateNote{Kind: NoteInvalidTooManyReps, Reps: reps}}
		}
		raw := displayFormula(formula, weight, policy.HardCap)
		return AmrapEstimate{
			E1RM: Round(raw, policy.RoundTo),
			Note: EstimateNote{Kind: NoteCapped, Reps: policy.HardCap},
		}
	}

	est := AmrapEstimate{E1RM: Round(displayFormula(formula, weight, reps), policy.RoundTo)}
	if reps >= policy.SoftWarnAt {
		est.Note = EstimateNote{Kind: NoteLowConfidence}
	}
	return est
}

func displayFormula(formula Formula, weight float64, reps int) float64 {
	r := float64(reps)
	if formula == FormulaWendler {
		return weight * (1 + 0.0333*r)
	}
	return weight * (1 + r/30)
}

// PREstimate is the raw estimate used when comparing a set against stored
// bests. It has no rounding or rep policy and a single rep is the weight.
// Unknown formulas fall back to epley.
func PREstimate(weight float64, reps int, formula Formula) float64 {
	if reps <= 1 {
		return weight
	}
	r := float64(reps)
	switch formula {
	case FormulaBrzycki:
		// 37 reps would divide by zero.
		r = math.Min(r, 36)
		return weight * 36 / (37 - r)
	case FormulaLombardi:
		return weight * math.Pow(r, 0.10)
	default:
		return weight * (1 + r/30)
	}
}

// IsNewPR reports whether a set beats the stored best, returning the set's
// PR-comparison estimate. A best of zero or less means no record yet.
func IsNewPR(best, weight float64, reps int, formula Formula) (bool, float64) {
	est := PREstimate(weight, reps, formula)
	if !isFinite(est) || est <= 0 {
		return false, 0
	}
	return est > best, est
}
