package calc

import (
	"testing"

	"github.com/claude/liftcalc/internal/models"
)

// sessionEntry is a deliberately different record shape from LiftLogRow to
// exercise the accessor-based API.
type sessionEntry struct {
	cycle, week int
	name        string
	accessory   bool
	deload      bool
}

var sessionAccessors = RecordAccessors[sessionEntry]{
	Cycle:    func(e sessionEntry) int { return e.cycle },
	Week:     func(e sessionEntry) int { return e.week },
	Lift:     func(e sessionEntry) models.Lift { return models.Lift(e.name) },
	IsMain:   func(e sessionEntry) bool { return !e.accessory },
	IsDeload: func(e sessionEntry) bool { return e.deload },
}

func fullCycle(cycle int, mains []models.Lift, withDeload bool) []sessionEntry {
	var out []sessionEntry
	weeks := 3
	if withDeload {
		weeks = 4
	}
	for w := 1; w <= weeks; w++ {
		for _, l := range mains {
			out = append(out, sessionEntry{cycle: cycle, week: w, name: string(l), deload: w == DeloadWeek})
		}
	}
	return out
}

// TestExpectedKeys verifies the week/lift cross product with and without the deload.
func TestExpectedKeys(t *testing.T) {
	mains := []models.Lift{models.Squat, models.Bench}
	if got := len(ExpectedKeys(mains, CyclePolicy{})); got != 6 {
		t.Errorf("without deload: %d keys, want 6", got)
	}
	keys := ExpectedKeys(mains, CyclePolicy{IncludeDeload: true})
	if len(keys) != 8 {
		t.Errorf("with deload: %d keys, want 8", len(keys))
	}
	if _, ok := keys[WeekLift{Week: 4, Lift: models.Bench}]; !ok {
		t.Error("missing deload bench key")
	}
}

// TestCompletedKeysFilters verifies other cycles, accessories, non-main lifts
// and deload entries are excluded.
func TestCompletedKeysFilters(t *testing.T) {
	mains := []models.Lift{models.Squat, models.Bench}
	history := []sessionEntry{
		{cycle: 2, week: 1, name: "squat"},
		{cycle: 1, week: 1, name: "bench"},
		{cycle: 2, week: 1, name: "bench", accessory: true},
		{cycle: 2, week: 2, name: "deadlift"},
		{cycle: 2, week: 4, name: "squat", deload: true},
	}

	got := CompletedKeys(history, 2, mains, CyclePolicy{}, sessionAccessors)
	if len(got) != 1 {
		t.Fatalf("completed = %v, want only week 1 squat", got)
	}
	if _, ok := got[WeekLift{Week: 1, Lift: models.Squat}]; !ok {
		t.Errorf("completed = %v, want week 1 squat", got)
	}

	withDeload := CompletedKeys(history, 2, mains, CyclePolicy{IncludeDeload: true}, sessionAccessors)
	if _, ok := withDeload[WeekLift{Week: 4, Lift: models.Squat}]; !ok {
		t.Errorf("completed with deload = %v, want week 4 squat", withDeload)
	}
}

// TestIsWeekComplete verifies a week needs every main lift.
func TestIsWeekComplete(t *testing.T) {
	mains := []models.Lift{models.Squat, models.Bench, models.Deadlift, models.Press}
	history := fullCycle(1, mains[:3], false)

	if IsWeekComplete(history, 1, 1, mains, sessionAccessors) {
		t.Error("week 1 should be incomplete without press")
	}
	history = append(history, sessionEntry{cycle: 1, week: 1, name: "press"})
	if !IsWeekComplete(history, 1, 1, mains, sessionAccessors) {
		t.Error("week 1 should be complete")
	}
	if IsWeekComplete(history, 2, 1, mains, sessionAccessors) {
		t.Error("cycle 2 has no entries")
	}
	history = append(history, sessionEntry{cycle: 1, week: 2, name: "press", accessory: true})
	if IsWeekComplete(history, 1, 2, mains, sessionAccessors) {
		t.Error("accessory press should not complete week 2")
	}
}

// TestIsCycleComplete verifies completion with and without the deload week.
func TestIsCycleComplete(t *testing.T) {
	mains := models.MainLifts

	history := fullCycle(3, mains, false)
	if !IsCycleComplete(history, 3, mains, CyclePolicy{}, sessionAccessors) {
		t.Error("three full weeks should complete a cycle without deload")
	}
	if IsCycleComplete(history, 3, mains, CyclePolicy{IncludeDeload: true}, sessionAccessors) {
		t.Error("cycle should be incomplete when the deload is required")
	}

	history = fullCycle(3, mains, true)
	if !IsCycleComplete(history, 3, mains, CyclePolicy{IncludeDeload: true}, sessionAccessors) {
		t.Error("four full weeks should complete a cycle with deload")
	}
	if IsCycleComplete(history[:len(history)-1], 3, mains, CyclePolicy{IncludeDeload: true}, sessionAccessors) {
		t.Error("missing the last deload session should leave the cycle incomplete")
	}
}

// TestLiftLogAccessors verifies the stored row accessors plug into cycle tracking.
func TestLiftLogAccessors(t *testing.T) {
	rows := []models.LiftLogRow{
		{Cycle: 1, Week: 1, Lift: models.Squat, IsMain: true},
		{Cycle: 1, Week: 1, Lift: models.Bench, IsMain: true},
	}
	mains := []models.Lift{models.Squat, models.Bench}
	if !IsWeekComplete(rows, 1, 1, mains, LiftLogAccessors) {
		t.Error("week 1 should be complete")
	}
}
