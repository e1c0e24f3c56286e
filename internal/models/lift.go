package models

import (
	"fmt"
	"strings"
)

// Lift identifies one of the four main barbell lifts.
type Lift string

const (
	Squat    Lift = "squat"
	Bench    Lift = "bench"
	Deadlift Lift = "deadlift"
	Press    Lift = "press"
)

// LiftClass groups lifts for progression bumps and caps.
type LiftClass string

const (
	UpperBody LiftClass = "upper"
	LowerBody LiftClass = "lower"
)

// MainLifts is the standard 5/3/1 day order.
var MainLifts = []Lift{Squat, Bench, Deadlift, Press}

var liftNames = map[Lift]string{
	Squat:    "Squat",
	Bench:    "Bench Press",
	Deadlift: "Deadlift",
	Press:    "Overhead Press",
}

// liftAliases maps lowercased user input to canonical lifts.
var liftAliases = map[string]Lift{
	"squat":          Squat,
	"back squat":     Squat,
	"bench":          Bench,
	"bench press":    Bench,
	"deadlift":       Deadlift,
	"dl":             Deadlift,
	"press":          Press,
	"ohp":            Press,
	"overhead press": Press,
}

// Class returns the progression class of the lift. Unknown lifts are
// treated as upper body so they get the smaller increments.
func (l Lift) Class() LiftClass {
	switch l {
	case Squat, Deadlift:
		return LowerBody
	default:
		return UpperBody
	}
}

// DisplayName returns the human-readable lift name.
func (l Lift) DisplayName() string {
	if name, ok := liftNames[l]; ok {
		return name
	}
	return string(l)
}

// Valid reports whether l is one of the main lifts.
func (l Lift) Valid() bool {
	_, ok := liftNames[l]
	return ok
}

// ParseLift resolves a lift from its canonical name, display name or a common alias.
func ParseLift(s string) (Lift, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if lift, ok := liftAliases[key]; ok {
		return lift, nil
	}
	return "", fmt.Errorf("unknown lift %q", s)
}
