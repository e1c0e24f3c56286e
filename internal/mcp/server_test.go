package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/claude/liftcalc/internal/logbook"
	"github.com/claude/liftcalc/internal/program"
	"github.com/claude/liftcalc/internal/training"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

func newTestHandlers(t *testing.T, withStore bool) *handlers {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var store training.Store
	if withStore {
		lb, err := logbook.Open(t.TempDir())
		if err != nil {
			t.Fatalf("logbook.Open: %v", err)
		}
		t.Cleanup(func() { lb.Close() })
		store = lb
	}
	return &handlers{svc: training.NewService(store, program.DefaultSettings(), log), log: log}
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// decode fails the test on a tool error and unmarshals the JSON text content.
func decode(t *testing.T, res *mcp.CallToolResult, err error, v any) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(res))
	}
	if err := json.Unmarshal([]byte(resultText(res)), v); err != nil {
		t.Fatalf("decoding %q: %v", resultText(res), err)
	}
}

func resultText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// TestCalculatePlates verifies the per-side breakdown on the default and a
// custom bar.
func TestCalculatePlates(t *testing.T) {
	h := newTestHandlers(t, false)
	ctx := context.Background()

	var load training.PlateLoad
	res, err := h.calculatePlates(ctx, call("calculate_plates", map[string]any{"weight": 225.0}))
	decode(t, res, err, &load)
	if load.Bar != 45 || !slices.Equal(load.PerSide, []float64{45, 45}) || load.Loaded != 225 {
		t.Errorf("225 = %+v, want two 45s per side", load)
	}

	res, err = h.calculatePlates(ctx, call("calculate_plates", map[string]any{"weight": 135.0, "bar": 35.0}))
	decode(t, res, err, &load)
	if load.Bar != 35 || !slices.Equal(load.PerSide, []float64{45, 5}) {
		t.Errorf("135 on 35 bar = %+v, want [45 5]", load)
	}

	res, _ = h.calculatePlates(ctx, call("calculate_plates", map[string]any{}))
	if !res.IsError {
		t.Error("expected error without weight")
	}
}

// TestNonFiniteArguments verifies NaN and infinite numbers are rejected as
// tool errors.
func TestNonFiniteArguments(t *testing.T) {
	h := newTestHandlers(t, false)
	ctx := context.Background()
	tests := []struct {
		name string
		run  func() (*mcp.CallToolResult, error)
	}{
		{"infinite weight", func() (*mcp.CallToolResult, error) {
			return h.calculatePlates(ctx, call("calculate_plates", map[string]any{"weight": math.Inf(1)}))
		}},
		{"NaN bar", func() (*mcp.CallToolResult, error) {
			return h.calculatePlates(ctx, call("calculate_plates", map[string]any{"weight": 225.0, "bar": math.NaN()}))
		}},
		{"NaN estimate weight", func() (*mcp.CallToolResult, error) {
			return h.estimate1RM(ctx, call("estimate_1rm", map[string]any{"weight": math.NaN(), "reps": 5.0}))
		}},
		{"infinite current", func() (*mcp.CallToolResult, error) {
			return h.nextTrainingMax(ctx, call("next_training_max", map[string]any{"lift": "bench", "current": math.Inf(1)}))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !res.IsError || !strings.Contains(resultText(res), "finite") {
				t.Errorf("result = %q, want a finite-number error", resultText(res))
			}
		})
	}
}

// TestPlanWarmupTool verifies the ramp stays below the target and carries plates.
func TestPlanWarmupTool(t *testing.T) {
	h := newTestHandlers(t, false)
	var out struct {
		Steps []training.WarmupSet `json:"steps"`
	}
	res, err := h.planWarmup(context.Background(), call("plan_warmup", map[string]any{"weight": 315.0, "lift": "squat"}))
	decode(t, res, err, &out)
	if len(out.Steps) == 0 || len(out.Steps) > 4 {
		t.Fatalf("steps = %+v, want 1-4", out.Steps)
	}
	if out.Steps[0].Weight != 45 {
		t.Errorf("first step = %v, want the empty bar", out.Steps[0].Weight)
	}
	for i, s := range out.Steps {
		if s.Weight >= 315 {
			t.Errorf("step %d = %v, want below 315", i, s.Weight)
		}
		if i > 0 && s.Weight <= out.Steps[i-1].Weight {
			t.Errorf("step %d = %v not above %v", i, s.Weight, out.Steps[i-1].Weight)
		}
	}

	res, _ = h.planWarmup(context.Background(), call("plan_warmup", map[string]any{"weight": 315.0, "lift": "curl"}))
	if !res.IsError {
		t.Error("expected error for unknown lift")
	}
}

// TestEstimate1RMTool verifies a normal estimate and a refused high-rep set.
func TestEstimate1RMTool(t *testing.T) {
	h := newTestHandlers(t, false)
	var out struct {
		Estimate struct {
			E1RM float64 `json:"estimated_1rm"`
		} `json:"estimate"`
		Message string `json:"message"`
	}
	res, err := h.estimate1RM(context.Background(), call("estimate_1rm", map[string]any{"weight": 200.0, "reps": 5.0}))
	decode(t, res, err, &out)
	if out.Estimate.E1RM <= 200 || out.Message != "" {
		t.Errorf("200x5 = %+v", out)
	}

	res, err = h.estimate1RM(context.Background(), call("estimate_1rm", map[string]any{"weight": 100.0, "reps": 20.0}))
	decode(t, res, err, &out)
	if out.Estimate.E1RM != 0 || out.Message == "" {
		t.Errorf("100x20 = %+v, want refused with a message", out)
	}
}

// TestWeekSchemeTool verifies weights are included only with a training max.
func TestWeekSchemeTool(t *testing.T) {
	h := newTestHandlers(t, false)
	var out struct {
		Sets []struct {
			Kind   string  `json:"kind"`
			Weight float64 `json:"weight"`
		} `json:"sets"`
	}
	res, err := h.weekScheme(context.Background(), call("week_scheme", map[string]any{"week": 1.0, "training_max": 200.0}))
	decode(t, res, err, &out)
	if len(out.Sets) != 4 {
		t.Fatalf("sets = %+v, want three mains and BBB", out.Sets)
	}
	if out.Sets[2].Weight != 170 || out.Sets[3].Kind != "bbb" || out.Sets[3].Weight != 100 {
		t.Errorf("sets = %+v", out.Sets)
	}

	out.Sets = nil
	res, err = h.weekScheme(context.Background(), call("week_scheme", map[string]any{"week": 4.0}))
	decode(t, res, err, &out)
	if out.Sets != nil {
		t.Errorf("sets without TM = %+v, want none", out.Sets)
	}
}

// TestJokerLadderTool verifies the full ladder and the next rung.
func TestJokerLadderTool(t *testing.T) {
	h := newTestHandlers(t, false)
	var out struct {
		Kind   string `json:"kind"`
		Ladder []struct {
			Weight float64 `json:"weight"`
		} `json:"ladder"`
		Next *struct {
			Weight float64 `json:"weight"`
		} `json:"next"`
	}
	res, err := h.jokerLadder(context.Background(), call("joker_ladder", map[string]any{
		"training_max":  400.0,
		"week":          2.0,
		"after_percent": 1.0,
		"after_reps":    3.0,
	}))
	decode(t, res, err, &out)
	if len(out.Ladder) != 4 {
		t.Errorf("ladder = %+v, want 4 rungs", out.Ladder)
	}
	if out.Next == nil || out.Next.Weight != 420 {
		t.Errorf("next = %+v, want 420", out.Next)
	}
}

// TestNextTrainingMaxExplicit verifies progression from supplied values
// without a store.
func TestNextTrainingMaxExplicit(t *testing.T) {
	h := newTestHandlers(t, false)
	var p training.Progression
	res, err := h.nextTrainingMax(context.Background(), call("next_training_max", map[string]any{
		"lift":    "deadlift",
		"current": 400.0,
	}))
	decode(t, res, err, &p)
	if p.Next != 410 {
		t.Errorf("next = %v, want 410", p.Next)
	}
}

// TestStoreToolsWithoutStore verifies persistence tools fail cleanly.
func TestStoreToolsWithoutStore(t *testing.T) {
	h := newTestHandlers(t, false)
	res, err := h.cycleStatus(context.Background(), call("cycle_status", map[string]any{"cycle": 1.0}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error without a store")
	}
}

// TestLogAndAdvance drives a cycle through the tools against the logbook.
func TestLogAndAdvance(t *testing.T) {
	h := newTestHandlers(t, true)
	ctx := WithUserID(context.Background(), 1)

	for _, lift := range []string{"squat", "bench", "deadlift", "press"} {
		res, err := h.setTrainingMax(ctx, call("set_training_max", map[string]any{"lift": lift, "value": 200.0}))
		if err != nil || res.IsError {
			t.Fatalf("set_training_max %s: %v %s", lift, err, resultText(res))
		}
	}

	res, _ := h.advanceCycle(ctx, call("advance_cycle", map[string]any{"cycle": 1.0}))
	if !res.IsError {
		t.Fatal("expected incomplete cycle error")
	}

	for week := 1; week <= 3; week++ {
		for _, lift := range []string{"squat", "bench", "deadlift", "press"} {
			res, err := h.logLift(ctx, call("log_lift", map[string]any{
				"lift":   lift,
				"cycle":  1.0,
				"week":   float64(week),
				"weight": 170.0,
				"reps":   5.0,
				"amrap":  true,
			}))
			if err != nil || res.IsError {
				t.Fatalf("log_lift %s week %d: %v %s", lift, week, err, resultText(res))
			}
		}
	}

	var status training.CycleStatus
	res, err := h.cycleStatus(ctx, call("cycle_status", map[string]any{"cycle": 1.0}))
	decode(t, res, err, &status)
	if !status.Complete {
		t.Fatalf("status = %+v, want complete", status)
	}

	var progressions []training.Progression
	res, err = h.advanceCycle(ctx, call("advance_cycle", map[string]any{"cycle": 1.0}))
	decode(t, res, err, &progressions)
	if len(progressions) != 4 {
		t.Fatalf("progressions = %+v, want 4", progressions)
	}
	for _, p := range progressions {
		if !p.Applied || p.Next <= p.Current {
			t.Errorf("%s: %+v, want applied increase", p.Lift, p)
		}
	}

	var day program.Day
	res, err = h.planDay(ctx, call("plan_day", map[string]any{"lift": "bench", "week": 1.0}))
	decode(t, res, err, &day)
	if day.TrainingMax != 205 {
		t.Errorf("plan_day TM = %v, want 205", day.TrainingMax)
	}
}
