package calc

import "fmt"

// SetKind classifies a prescribed set.
type SetKind string

const (
	SetMain       SetKind = "main"
	SetBBB        SetKind = "bbb"
	SetAssistance SetKind = "assistance"
	SetJoker      SetKind = "joker"
)

// SetPrescription is one prescribed set.
type SetPrescription struct {
	Kind        SetKind `json:"kind"`
	PercentOfTM float64 `json:"percent_of_tm"`
	Reps        int     `json:"reps"`
	AMRAP       bool    `json:"amrap,omitempty"`
	Weight      float64 `json:"weight"`
	Label       string  `json:"label"`
}

// SetTemplate is a percentage/rep pair for one main-lift set.
type SetTemplate struct {
	Percent float64 `json:"percent"`
	Reps    int     `json:"reps"`
	AMRAP   bool    `json:"amrap,omitempty"`
}

// WeekScheme is the main-lift template for one program week.
type WeekScheme struct {
	Week               int            `json:"week"`
	Sets               [3]SetTemplate `json:"sets"`
	IncludesAssistance bool           `json:"includes_assistance"`
	Label              string         `json:"label"`
}

// Deload reports whether the scheme is the reduced-intensity week.
func (s WeekScheme) Deload() bool { return s.Week == DeloadWeek }

// DeloadWeek is the reduced-intensity fourth week of a cycle.
const DeloadWeek = 4

var weekSchemes = map[int]WeekScheme{
	1: {
		Week: 1,
		Sets: [3]SetTemplate{
			{Percent: 0.65, Reps: 5},
			{Percent: 0.75, Reps: 5},
			{Percent: 0.85, Reps: 5, AMRAP: true},
		},
		IncludesAssistance: true,
		Label:              "85% × 5+",
	},
	2: {
		Week: 2,
		Sets: [3]SetTemplate{
			{Percent: 0.70, Reps: 3},
			{Percent: 0.80, Reps: 3},
			{Percent: 0.90, Reps: 3, AMRAP: true},
		},
		IncludesAssistance: true,
		Label:              "90% × 3+",
	},
	3: {
		Week: 3,
		Sets: [3]SetTemplate{
			{Percent: 0.75, Reps: 5},
			{Percent: 0.85, Reps: 3},
			{Percent: 0.95, Reps: 1, AMRAP: true},
		},
		IncludesAssistance: true,
		Label:              "95% × 1+",
	},
	DeloadWeek: {
		Week: DeloadWeek,
		Sets: [3]SetTemplate{
			{Percent: 0.40, Reps: 5},
			{Percent: 0.50, Reps: 5},
			{Percent: 0.60, Reps: 5},
		},
		IncludesAssistance: false,
		Label:              "Deload: 60% × 5",
	},
}

// WeekSchemeFor returns the scheme for a program week. Any week other than
// 2, 3 or 4 gets the week 1 scheme.
func WeekSchemeFor(week int) WeekScheme {
	if s, ok := weekSchemes[week]; ok {
		return s
	}
	return weekSchemes[1]
}

// Prescriptions expands the scheme into main sets for a training max.
func (s WeekScheme) Prescriptions(trainingMax, roundTo float64) []SetPrescription {
	out := make([]SetPrescription, 0, len(s.Sets))
	for _, t := range s.Sets {
		out = append(out, SetPrescription{
			Kind:        SetMain,
			PercentOfTM: t.Percent,
			Reps:        t.Reps,
			AMRAP:       t.AMRAP,
			Weight:      Round(trainingMax*t.Percent, roundTo),
			Label:       setLabel(t.Percent, t.Reps, t.AMRAP),
		})
	}
	return out
}

// BBBPrescription returns the 5x10 supplemental work at bbbPercent of the TM.
func BBBPrescription(trainingMax, bbbPercent, roundTo float64) SetPrescription {
	return SetPrescription{
		Kind:        SetBBB,
		PercentOfTM: bbbPercent,
		Reps:        10,
		Weight:      Round(trainingMax*bbbPercent, roundTo),
		Label:       fmt.Sprintf("BBB 5 × 10 @ %.0f%%", bbbPercent*100),
	}
}

func setLabel(pct float64, reps int, amrap bool) string {
	plus := ""
	if amrap {
		plus = "+"
	}
	return fmt.Sprintf("%.0f%% × %d%s", pct*100, reps, plus)
}
