package calc

import (
	"encoding/json"
	"math"
	"testing"
)

// TestEstimateOneRepMax verifies the display estimate, its rounding and the
// confidence notes for each rep band.
func TestEstimateOneRepMax(t *testing.T) {
	policy := DefaultEstimatePolicy(5)
	tests := []struct {
		name    string
		weight  float64
		reps    int
		formula Formula
		want    AmrapEstimate
	}{
		{"epley eight reps", 200, 8, FormulaEpley, AmrapEstimate{E1RM: 255}},
		{"wendler eight reps", 200, 8, FormulaWendler, AmrapEstimate{E1RM: 255}},
		{"unknown formula uses epley", 200, 8, Formula("mystery"), AmrapEstimate{E1RM: 255}},
		{"single is rounded weight", 227.5, 1, FormulaEpley, AmrapEstimate{E1RM: 230}},
		{"soft warning threshold", 100, 11, FormulaEpley, AmrapEstimate{E1RM: 135, Note: EstimateNote{Kind: NoteLowConfidence}}},
		{"at hard cap", 100, 15, FormulaEpley, AmrapEstimate{E1RM: 150, Note: EstimateNote{Kind: NoteLowConfidence}}},
		{"above hard cap refused", 100, 16, FormulaEpley, AmrapEstimate{Note: EstimateNote{Kind: NoteInvalidTooManyReps, Reps: 16}}},
		{"zero weight", 0, 5, FormulaEpley, AmrapEstimate{}},
		{"negative weight", -100, 5, FormulaEpley, AmrapEstimate{}},
		{"zero reps", 100, 0, FormulaEpley, AmrapEstimate{}},
		{"NaN weight", math.NaN(), 5, FormulaEpley, AmrapEstimate{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateOneRepMax(tt.weight, tt.reps, tt.formula, policy)
			if got != tt.want {
				t.Errorf("EstimateOneRepMax(%v, %d, %s) = %+v, want %+v", tt.weight, tt.reps, tt.formula, got, tt.want)
			}
		})
	}
}

// TestEstimateCappedWhenNotRefusing verifies that sets above the hard cap are
// estimated at the cap when refusal is disabled.
func TestEstimateCappedWhenNotRefusing(t *testing.T) {
	policy := DefaultEstimatePolicy(5)
	policy.RefuseAboveHardCap = false

	got := EstimateOneRepMax(100, 20, FormulaEpley, policy)
	want := AmrapEstimate{E1RM: 150, Note: EstimateNote{Kind: NoteCapped, Reps: 15}}
	if got != want {
		t.Errorf("EstimateOneRepMax(100, 20) = %+v, want %+v", got, want)
	}
}

// TestEstimateBanding checks the note for every rep count up to the cap.
func TestEstimateBanding(t *testing.T) {
	policy := DefaultEstimatePolicy(5)
	for reps := 1; reps <= 20; reps++ {
		est := EstimateOneRepMax(185, reps, FormulaEpley, policy)
		var want NoteKind
		switch {
		case reps > policy.HardCap:
			want = NoteInvalidTooManyReps
			if est.E1RM != 0 {
				t.Errorf("reps %d: E1RM = %v, want 0", reps, est.E1RM)
			}
		case reps >= policy.SoftWarnAt:
			want = NoteLowConfidence
		default:
			want = NoteNone
		}
		if est.Note.Kind != want {
			t.Errorf("reps %d: note = %s, want %s", reps, est.Note.Kind, want)
		}
	}
}

// TestEstimateNoteJSON verifies the note encodes as a readable kind.
func TestEstimateNoteJSON(t *testing.T) {
	data, err := json.Marshal(EstimateNote{Kind: NoteInvalidTooManyReps, Reps: 18})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"kind":"invalid_too_many_reps","reps":18}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
	if msg := (EstimateNote{}).Message(); msg != "" {
		t.Errorf("Message() for none = %q, want empty", msg)
	}
}

// TestPREstimate verifies the raw PR-comparison formulas.
func TestPREstimate(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		reps    int
		formula Formula
		want    float64
	}{
		{"epley", 200, 5, FormulaEpley, 233.333},
		{"brzycki", 200, 5, FormulaBrzycki, 225},
		{"lombardi", 200, 10, FormulaLombardi, 251.785},
		{"single is weight", 200, 1, FormulaBrzycki, 200},
		{"zero reps is weight", 200, 0, FormulaEpley, 200},
		{"brzycki clamps reps", 100, 40, FormulaBrzycki, 3600},
		{"unknown falls back to epley", 150, 10, Formula("other"), 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PREstimate(tt.weight, tt.reps, tt.formula); math.Abs(got-tt.want) > 0.01 {
				t.Errorf("PREstimate(%v, %d, %s) = %v, want %v", tt.weight, tt.reps, tt.formula, got, tt.want)
			}
		})
	}
}

// TestIsNewPR verifies comparison against a stored best.
func TestIsNewPR(t *testing.T) {
	isPR, est := IsNewPR(230, 200, 5, FormulaEpley)
	if !isPR || math.Abs(est-233.333) > 0.01 {
		t.Errorf("IsNewPR(230, 200x5) = %v, %v", isPR, est)
	}
	if isPR, _ := IsNewPR(240, 200, 5, FormulaEpley); isPR {
		t.Error("IsNewPR(240, 200x5) should not be a PR")
	}
	if isPR, _ := IsNewPR(0, 0, 5, FormulaEpley); isPR {
		t.Error("zero weight should never be a PR")
	}
}

// TestParseFormula verifies known names parse and unknown names fail.
func TestParseFormula(t *testing.T) {
	for _, name := range []string{"epley", "wendler", "brzycki", "lombardi"} {
		if _, err := ParseFormula(name); err != nil {
			t.Errorf("ParseFormula(%q): %v", name, err)
		}
	}
	if _, err := ParseFormula("mayhew"); err == nil {
		t.Error("ParseFormula(mayhew): expected error")
	}
}
