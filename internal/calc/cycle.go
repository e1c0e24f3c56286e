package calc

import "github.com/claude/liftcalc/internal/models"

// WeekLift identifies one main-lift session within a cycle.
type WeekLift struct {
	Week int
	Lift models.Lift
}

// KeySet is a set of week/lift sessions.
type KeySet map[WeekLift]struct{}

// Contains reports whether every key of other is in s.
func (s KeySet) Contains(other KeySet) bool {
	for k := range other {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// CyclePolicy controls whether the deload week counts toward completion.
type CyclePolicy struct {
	IncludeDeload bool
}

func (p CyclePolicy) weeks() []int {
	if p.IncludeDeload {
		return []int{1, 2, 3, DeloadWeek}
	}
	return []int{1, 2, 3}
}

// RecordAccessors projects the fields cycle tracking needs out of any
// history record type.
type RecordAccessors[R any] struct {
	Cycle    func(R) int
	Week     func(R) int
	Lift     func(R) models.Lift
	IsMain   func(R) bool
	IsDeload func(R) bool
}

// ExpectedKeys is every (week, lift) a cycle must contain.
func ExpectedKeys(mains []models.Lift, policy CyclePolicy) KeySet {
	keys := make(KeySet)
	for _, w := range policy.weeks() {
		for _, l := range mains {
			keys[WeekLift{Week: w, Lift: l}] = struct{}{}
		}
	}
	return keys
}

// CompletedKeys is every (week, lift) in history for the cycle, counting only
// main-lift entries for lifts in mains. Deload-flagged entries are skipped
// unless the policy includes the deload.
func CompletedKeys[R any](history []R, cycle int, mains []models.Lift, policy CyclePolicy, acc RecordAccessors[R]) KeySet {
	wanted := liftSet(mains)
	keys := make(KeySet)
	for _, rec := range history {
		if acc.Cycle(rec) != cycle || !acc.IsMain(rec) {
			continue
		}
		lift := acc.Lift(rec)
		if _, ok := wanted[lift]; !ok {
			continue
		}
		if !policy.IncludeDeload && acc.IsDeload != nil && acc.IsDeload(rec) {
			continue
		}
		keys[WeekLift{Week: acc.Week(rec), Lift: lift}] = struct{}{}
	}
	return keys
}

// IsWeekComplete reports whether every main lift has a main-lift entry in the
// given cycle and week.
func IsWeekComplete[R any](history []R, cycle, week int, mains []models.Lift, acc RecordAccessors[R]) bool {
	done := make(map[models.Lift]struct{})
	for _, rec := range history {
		if acc.Cycle(rec) == cycle && acc.Week(rec) == week && acc.IsMain(rec) {
			done[acc.Lift(rec)] = struct{}{}
		}
	}
	for _, l := range mains {
		if _, ok := done[l]; !ok {
			return false
		}
	}
	return true
}

// IsCycleComplete reports whether the completed keys cover the expected keys.
func IsCycleComplete[R any](history []R, cycle int, mains []models.Lift, policy CyclePolicy, acc RecordAccessors[R]) bool {
	return CompletedKeys(history, cycle, mains, policy, acc).Contains(ExpectedKeys(mains, policy))
}

func liftSet(lifts []models.Lift) map[models.Lift]struct{} {
	set := make(map[models.Lift]struct{}, len(lifts))
	for _, l := range lifts {
		set[l] = struct{}{}
	}
	return set
}

// LiftLogAccessors reads cycle fields from stored lift logs.
var LiftLogAccessors = RecordAccessors[models.LiftLogRow]{
	Cycle:    func(r models.LiftLogRow) int { return r.Cycle },
	Week:     func(r models.LiftLogRow) int { return r.Week },
	Lift:     func(r models.LiftLogRow) models.Lift { return r.Lift },
	IsMain:   func(r models.LiftLogRow) bool { return r.IsMain },
	IsDeload: func(r models.LiftLogRow) bool { return r.IsDeload },
}
