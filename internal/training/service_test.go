package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
)

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	logs    []models.LiftLogRow
	records map[string]models.PersonalRecordRow
	tms     map[models.Lift]models.TrainingMaxRow
}

func newMemStore() *memStore {
	return &memStore{
		records: map[string]models.PersonalRecordRow{},
		tms:     map[models.Lift]models.TrainingMaxRow{},
	}
}

func (m *memStore) InsertLiftLog(_ context.Context, row models.LiftLogRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, row)
	return nil
}

func (m *memStore) ListLiftLogs(_ context.Context, userID, cycle int) ([]models.LiftLogRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LiftLogRow
	for _, r := range m.logs {
		if r.UserID == userID && (cycle <= 0 || r.Cycle == cycle) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) LatestAmrap(_ context.Context, userID int, lift models.Lift, cycle int) (*models.LiftLogRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.LiftLogRow
	for i := range m.logs {
		r := m.logs[i]
		if r.UserID != userID || r.Lift != lift || r.Cycle != cycle || !r.IsAMRAP || !r.IsMain || r.IsDeload {
			continue
		}
		if latest == nil || !r.PerformedAt.Before(latest.PerformedAt) {
			latest = &r
		}
	}
	return latest, nil
}

func recordKey(userID, cycle int, lift models.Lift) string {
	return fmt.Sprintf("%d/%d/%s", userID, cycle, lift)
}

func (m *memStore) BestEstimate(_ context.Context, userID, cycle int, lift models.Lift) (*models.PersonalRecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[recordKey(userID, cycle, lift)]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memStore) UpsertBestEstimate(_ context.Context, row models.PersonalRecordRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey(row.UserID, row.Cycle, row.Lift)
	if cur, ok := m.records[key]; !ok || row.Estimate > cur.Estimate {
		m.records[key] = row
	}
	return nil
}

func (m *memStore) ListPersonalRecords(_ context.Context, userID int) ([]models.PersonalRecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PersonalRecordRow
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) TrainingMaxes(_ context.Context, userID int) ([]models.TrainingMaxRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrainingMaxRow
	for _, r := range m.tms {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) SetTrainingMax(_ context.Context, row models.TrainingMaxRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tms[row.Lift] = row
	return nil
}

var testNow = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func newTestService(store Store, settings program.Settings) *Service {
	s := NewService(store, settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return testNow }
	return s
}

func logMains(t *testing.T, s *Service, cycle int, weeks []int, lifts []models.Lift) {
	t.Helper()
	for _, week := range weeks {
		for _, lift := range lifts {
			_, err := s.LogLift(context.Background(), 1, LogRequest{Cycle: cycle, Week: week, Lift: lift, Weight: 100, Reps: 5})
			if err != nil {
				t.Fatalf("LogLift(%s week %d): %v", lift, week, err)
			}
		}
	}
}

// TestLogLiftAmrapPR verifies the display estimate and PR tracking for AMRAP sets.
func TestLogLiftAmrapPR(t *testing.T) {
	store := newMemStore()
	s := newTestService(store, program.DefaultSettings())
	ctx := context.Background()

	res, err := s.LogLift(ctx, 1, LogRequest{Cycle: 1, Week: 1, Lift: models.Squat, Weight: 200, Reps: 8, AMRAP: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Estimate == nil || res.Estimate.E1RM != 255 {
		t.Fatalf("estimate = %+v, want 255", res.Estimate)
	}
	if res.Log.EstimatedMax == nil || *res.Log.EstimatedMax != 255 {
		t.Errorf("stored estimate = %v, want 255", res.Log.EstimatedMax)
	}
	if !res.IsPR || res.PreviousBest != 0 {
		t.Errorf("first AMRAP should be a PR, got %+v", res)
	}
	if !res.Log.PerformedAt.Equal(testNow) {
		t.Errorf("performed_at = %v, want %v", res.Log.PerformedAt, testNow)
	}

	res, err = s.LogLift(ctx, 1, LogRequest{Cycle: 1, Week: 2, Lift: models.Squat, Weight: 200, Reps: 5, AMRAP: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsPR {
		t.Error("weaker AMRAP should not be a PR")
	}
	if res.PreviousBest < 253 || res.PreviousBest > 254 {
		t.Errorf("previous best = %v, want ~253.3", res.PreviousBest)
	}

	records, err := s.Records(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Reps != 8 {
		t.Errorf("records = %+v, want the 8-rep set", records)
	}
}

// TestLogLiftUnscored verifies plain, accessory and deload sets get no estimate.
func TestLogLiftUnscored(t *testing.T) {
	s := newTestService(newMemStore(), program.DefaultSettings())
	cases := []LogRequest{
		{Cycle: 1, Week: 1, Lift: models.Bench, Weight: 150, Reps: 5},
		{Cycle: 1, Week: 1, Lift: models.Bench, Weight: 100, Reps: 10, AMRAP: true, Accessory: true},
		{Cycle: 1, Week: 4, Lift: models.Bench, Weight: 90, Reps: 5, AMRAP: true},
	}
	for _, req := range cases {
		res, err := s.LogLift(context.Background(), 1, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Estimate != nil || res.IsPR || res.Log.EstimatedMax != nil {
			t.Errorf("%+v: got scored result %+v", req, res)
		}
	}
}

// TestLogLiftTooManyReps verifies a refused estimate is stored without a max
// and never becomes a personal record.
func TestLogLiftTooManyReps(t *testing.T) {
	store := newMemStore()
	s := newTestService(store, program.DefaultSettings())
	res, err := s.LogLift(context.Background(), 1, LogRequest{Cycle: 1, Week: 1, Lift: models.Press, Weight: 65, Reps: 20, AMRAP: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Estimate == nil || res.Estimate.Note.Kind != calc.NoteInvalidTooManyReps {
		t.Fatalf("estimate = %+v, want refused", res.Estimate)
	}
	if res.Log.EstimatedMax != nil {
		t.Error("refused estimate should not be stored")
	}
	if res.Note == "" {
		t.Error("expected a note explaining the refusal")
	}
	if res.IsPR || res.PREstimate != 0 {
		t.Errorf("refused set scored as PR: %+v", res)
	}
	best, err := store.BestEstimate(context.Background(), 1, 1, models.Press)
	if err != nil {
		t.Fatalf("BestEstimate: %v", err)
	}
	if best != nil {
		t.Errorf("stored record = %+v, want none", best)
	}
}

// TestLogLiftValidation verifies malformed requests are rejected.
func TestLogLiftValidation(t *testing.T) {
	s := newTestService(newMemStore(), program.DefaultSettings())
	cases := map[string]LogRequest{
		"unknown lift": {Cycle: 1, Week: 1, Lift: "curl", Weight: 50, Reps: 10},
		"week 5":       {Cycle: 1, Week: 5, Lift: models.Squat, Weight: 100, Reps: 5},
		"cycle 0":      {Cycle: 0, Week: 1, Lift: models.Squat, Weight: 100, Reps: 5},
		"zero reps":    {Cycle: 1, Week: 1, Lift: models.Squat, Weight: 100, Reps: 0},
		"negative":     {Cycle: 1, Week: 1, Lift: models.Squat, Weight: -5, Reps: 5},
	}
	for name, req := range cases {
		if _, err := s.LogLift(context.Background(), 1, req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
}

// TestNoStore verifies persistence operations fail cleanly without a store
// while the calculations still work.
func TestNoStore(t *testing.T) {
	s := newTestService(nil, program.DefaultSettings())
	if _, err := s.LogLift(context.Background(), 1, LogRequest{Cycle: 1, Week: 1, Lift: models.Squat, Weight: 100, Reps: 5}); !errors.Is(err, ErrNoStore) {
		t.Errorf("LogLift err = %v, want ErrNoStore", err)
	}
	if _, err := s.CycleStatus(context.Background(), 1, 1); !errors.Is(err, ErrNoStore) {
		t.Errorf("CycleStatus err = %v, want ErrNoStore", err)
	}
	if got := s.Plates(225, 0); !slices.Equal(got.PerSide, []float64{45, 45}) || got.Loaded != 225 {
		t.Errorf("Plates(225) = %+v", got)
	}
}

// TestPlatesCustomBar verifies an explicit bar overrides the configured one.
func TestPlatesCustomBar(t *testing.T) {
	s := newTestService(nil, program.DefaultSettings())
	got := s.Plates(135, 35)
	if got.Bar != 35 || !slices.Equal(got.PerSide, []float64{45, 5}) {
		t.Errorf("Plates(135, 35) = %+v, want [45 5] on 35", got)
	}
}

// TestCycleStatus verifies per-week missing lifts and whole-cycle completion.
func TestCycleStatus(t *testing.T) {
	s := newTestService(newMemStore(), program.DefaultSettings())
	ctx := context.Background()

	logMains(t, s, 1, []int{1, 2}, models.MainLifts)
	logMains(t, s, 1, []int{3}, []models.Lift{models.Squat, models.Bench, models.Deadlift})

	status, err := s.CycleStatus(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Complete || status.Completed != 11 || status.Expected != 12 {
		t.Errorf("status = %+v, want 11/12 incomplete", status)
	}
	if len(status.Weeks) != 3 || !status.Weeks[0].Complete || status.Weeks[2].Complete {
		t.Fatalf("weeks = %+v", status.Weeks)
	}
	if !slices.Equal(status.Weeks[2].Missing, []models.Lift{models.Press}) {
		t.Errorf("week 3 missing = %v, want [press]", status.Weeks[2].Missing)
	}

	logMains(t, s, 1, []int{3}, []models.Lift{models.Press})
	status, err = s.CycleStatus(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Complete {
		t.Errorf("status = %+v, want complete", status)
	}
}

// TestAdvanceCycleClassic verifies classic bumps, the incomplete guard and
// that repeating the call does not bump twice.
func TestAdvanceCycleClassic(t *testing.T) {
	store := newMemStore()
	s := newTestService(store, program.DefaultSettings())
	ctx := context.Background()

	for lift, tm := range map[models.Lift]float64{models.Squat: 300, models.Bench: 200, models.Deadlift: 400, models.Press: 130} {
		if _, err := s.SetTrainingMax(ctx, 1, lift, 1, tm, false); err != nil {
			t.Fatalf("SetTrainingMax: %v", err)
		}
	}

	logMains(t, s, 1, []int{1, 2}, models.MainLifts)
	if _, err := s.AdvanceCycle(ctx, 1, 1); !errors.Is(err, ErrCycleIncomplete) {
		t.Fatalf("err = %v, want ErrCycleIncomplete", err)
	}

	logMains(t, s, 1, []int{3}, models.MainLifts)
	got, err := s.AdvanceCycle(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[models.Lift]float64{models.Squat: 310, models.Bench: 205, models.Deadlift: 410, models.Press: 135}
	if len(got) != 4 {
		t.Fatalf("progressions = %+v, want 4", got)
	}
	for _, p := range got {
		if p.Next != want[p.Lift] || !p.Applied {
			t.Errorf("%s: %+v, want next %v applied", p.Lift, p, want[p.Lift])
		}
		if stored := store.tms[p.Lift]; stored.Value != want[p.Lift] || stored.Cycle != 2 {
			t.Errorf("%s stored = %+v", p.Lift, stored)
		}
	}

	again, err := s.AdvanceCycle(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range again {
		if p.Applied || p.Next != want[p.Lift] {
			t.Errorf("repeat %s: %+v, want unchanged", p.Lift, p)
		}
	}
}

// TestNextTrainingMaxAuto verifies auto progression reads the latest AMRAP.
func TestNextTrainingMaxAuto(t *testing.T) {
	settings := program.DefaultSettings()
	settings.Style = calc.ProgressionAuto
	s := newTestService(newMemStore(), settings)
	ctx := context.Background()

	if _, err := s.NextTrainingMax(ctx, 1, models.Bench, 1); !errors.Is(err, ErrNoTrainingMax) {
		t.Fatalf("err = %v, want ErrNoTrainingMax", err)
	}
	if _, err := s.SetTrainingMax(ctx, 1, models.Bench, 1, 200, false); err != nil {
		t.Fatalf("SetTrainingMax: %v", err)
	}

	p, err := s.NextTrainingMax(ctx, 1, models.Bench, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Next != 200 {
		t.Errorf("without an AMRAP next = %v, want unchanged 200", p.Next)
	}

	if _, err := s.LogLift(ctx, 1, LogRequest{Cycle: 1, Week: 1, Lift: models.Bench, Weight: 185, Reps: 10, AMRAP: true}); err != nil {
		t.Fatalf("LogLift: %v", err)
	}
	p, err = s.NextTrainingMax(ctx, 1, models.Bench, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Estimate != 245 || p.Next != 210 {
		t.Errorf("progression = %+v, want estimate 245 and capped next 210", p)
	}

	s.now = func() time.Time { return testNow.Add(time.Hour) }
	if _, err := s.LogLift(ctx, 1, LogRequest{Cycle: 1, Week: 1, Lift: models.Bench, Weight: 100, Reps: 12, AMRAP: true, Accessory: true}); err != nil {
		t.Fatalf("LogLift accessory: %v", err)
	}
	p, err = s.NextTrainingMax(ctx, 1, models.Bench, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Estimate != 245 {
		t.Errorf("after accessory AMRAP estimate = %v, want the top set's 245", p.Estimate)
	}
}

// TestSetTrainingMaxFromOneRepMax verifies a tested max is converted at 90%.
func TestSetTrainingMaxFromOneRepMax(t *testing.T) {
	s := newTestService(newMemStore(), program.DefaultSettings())
	row, err := s.SetTrainingMax(context.Background(), 1, models.Deadlift, 1, 315, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Value != 285 {
		t.Errorf("training max = %v, want 285", row.Value)
	}
	if _, err := s.SetTrainingMax(context.Background(), 1, models.Deadlift, 1, 0, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// TestPlanDay verifies the day is built from the stored training max.
func TestPlanDay(t *testing.T) {
	s := newTestService(newMemStore(), program.DefaultSettings())
	ctx := context.Background()

	if _, err := s.PlanDay(ctx, 1, models.Press, 3); !errors.Is(err, ErrNoTrainingMax) {
		t.Fatalf("err = %v, want ErrNoTrainingMax", err)
	}
	if _, err := s.SetTrainingMax(ctx, 1, models.Press, 1, 100, false); err != nil {
		t.Fatalf("SetTrainingMax: %v", err)
	}
	day, err := s.PlanDay(ctx, 1, models.Press, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var main []float64
	for _, set := range day.Sets {
		if set.Kind == calc.SetMain {
			main = append(main, set.Weight)
		}
	}
	if !slices.Equal(main, []float64{75, 85, 95}) {
		t.Errorf("main weights = %v, want [75 85 95]", main)
	}
	if len(day.Jokers) != 2 {
		t.Errorf("jokers = %+v, want the singles ladder", day.Jokers)
	}
}
