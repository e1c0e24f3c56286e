package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/training"
	"github.com/mark3labs/mcp-go/mcp"
)

var liftEnum = mcp.Enum("squat", "bench", "deadlift", "press")

// --- Tool definitions ---

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Break a barbell load into the plates needed on each side. Under-fills rather than over-fills when the plate set cannot make the exact weight."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Total load including the bar")),
	mcp.WithNumber("bar", mcp.Description("Bar weight. Defaults to the configured bar.")),
)

var toolPlanWarmup = mcp.NewTool("plan_warmup",
	mcp.WithDescription("Plan a warm-up ramp up to a working weight. Returns at most four steps, starting with the empty bar (or 135 for heavy deadlifts)."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Working weight to warm up to")),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Main lift"), liftEnum),
)

var toolEstimate1RM = mcp.NewTool("estimate_1rm",
	mcp.WithDescription("Estimate a one-rep max from an AMRAP set. High-rep sets are flagged as low confidence and sets above the rep cap are refused."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed")),
)

var toolWeekScheme = mcp.NewTool("week_scheme",
	mcp.WithDescription("Get the main-lift percentages and reps for a program week (1-4). With a training max, also returns the prescribed weights."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week, 1-4. Other values return week 1.")),
	mcp.WithNumber("training_max", mcp.Description("Training max to compute weights from")),
)

var toolJokerLadder = mcp.NewTool("joker_ladder",
	mcp.WithDescription("List joker sets above the top set for the 3s week (triples from 95% TM) or 1s week (singles from 100% TM). Pass the last performed rung to get the next one."),
	mcp.WithNumber("training_max", mcp.Required(), mcp.Description("Training max")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week, 1-4")),
	mcp.WithNumber("after_percent", mcp.Description("Percent of TM of the last performed joker, as a fraction (e.g. 1.05)")),
	mcp.WithNumber("after_reps", mcp.Description("Reps of the last performed joker")),
)

var toolNextTrainingMax = mcp.NewTool("next_training_max",
	mcp.WithDescription("Compute the next cycle's training max. Without 'current', uses the stored training max and the latest logged AMRAP of the cycle."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Main lift"), liftEnum),
	mcp.WithNumber("cycle", mcp.Description("Cycle whose AMRAP sets feed auto progression. Defaults to 1.")),
	mcp.WithNumber("current", mcp.Description("Current training max; skips the stored value")),
	mcp.WithNumber("estimate", mcp.Description("Estimated 1RM to use with 'current'")),
)

var toolPlanDay = mcp.NewTool("plan_day",
	mcp.WithDescription("Prescribe a full training day: warm-ups, main sets, BBB 5x10 and jokers, with plates per side for every weight."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Main lift"), liftEnum),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week, 1-4")),
	mcp.WithNumber("training_max", mcp.Description("Training max. Defaults to the stored value.")),
)

var toolCycleStatus = mcp.NewTool("cycle_status",
	mcp.WithDescription("Show which main-lift sessions of a cycle have been logged and whether each week and the cycle are complete."),
	mcp.WithNumber("cycle", mcp.Required(), mcp.Description("Cycle number")),
)

var toolLogLift = mcp.NewTool("log_lift",
	mcp.WithDescription("Log a performed set. Main-lift AMRAP sets get a 1RM estimate and are checked for a personal record."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Main lift"), liftEnum),
	mcp.WithNumber("cycle", mcp.Required(), mcp.Description("Cycle number")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Program week, 1-4")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed")),
	mcp.WithBoolean("amrap", mcp.Description("Whether this was the AMRAP top set")),
	mcp.WithBoolean("accessory", mcp.Description("Whether this was supplemental work rather than the main lift")),
)

var toolSetTrainingMax = mcp.NewTool("set_training_max",
	mcp.WithDescription("Store the training max for a lift. With one_rep_max, the value is a tested max and the TM is derived from it."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Main lift"), liftEnum),
	mcp.WithNumber("value", mcp.Required(), mcp.Description("Training max, or tested max with one_rep_max")),
	mcp.WithNumber("cycle", mcp.Description("Cycle the training max applies to. Defaults to 1.")),
	mcp.WithBoolean("one_rep_max", mcp.Description("Treat value as a tested one-rep max")),
)

var toolAdvanceCycle = mcp.NewTool("advance_cycle",
	mcp.WithDescription("Apply training max progression to every lift once a cycle is complete."),
	mcp.WithNumber("cycle", mcp.Required(), mcp.Description("Completed cycle number")),
)

// --- Handlers ---

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// failure turns a service error into a tool error. Caller mistakes are
// returned as-is; anything else is logged.
func (h *handlers) failure(tool string, err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, training.ErrInvalidInput),
		errors.Is(err, training.ErrNoTrainingMax),
		errors.Is(err, training.ErrCycleIncomplete):
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("request failed: " + err.Error()), nil
}

func requireFinite(req mcp.CallToolRequest, name string) (float64, error) {
	v, err := req.RequireFloat(name)
	if err != nil {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}

// checkFinite rejects optional numeric arguments that are NaN or infinite.
func checkFinite(req mcp.CallToolRequest, names ...string) error {
	for _, name := range names {
		if v := req.GetFloat(name, 0); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	return nil
}

func requireLift(req mcp.CallToolRequest) (models.Lift, error) {
	name, err := req.RequireString("lift")
	if err != nil {
		return "", err
	}
	return models.ParseLift(name)
}

func (h *handlers) calculatePlates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkFinite(req, "bar"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	weight, err := requireFinite(req, "weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(h.svc.Plates(weight, req.GetFloat("bar", 0)))
}

func (h *handlers) planWarmup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := requireFinite(req, "weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lift, err := requireLift(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"lift":   lift,
		"target": weight,
		"steps":  h.svc.WarmupPlates(weight, lift),
	})
}

func (h *handlers) estimate1RM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := requireFinite(req, "weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	est := h.svc.Estimate(weight, reps)
	return jsonResult(map[string]any{
		"estimate": est,
		"message":  est.Note.Message(),
	})
}

func (h *handlers) weekScheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkFinite(req, "training_max"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	out := map[string]any{"scheme": calc.WeekSchemeFor(week)}
	if tm := req.GetFloat("training_max", 0); tm > 0 {
		out["sets"] = h.svc.WeekSets(week, tm)
	}
	return jsonResult(out)
}

func (h *handlers) jokerLadder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkFinite(req, "after_percent"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tm, err := requireFinite(req, "training_max")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}

	var performed []calc.SetPrescription
	if pct := req.GetFloat("after_percent", 0); pct > 0 {
		performed = append(performed, calc.SetPrescription{
			Kind:        calc.SetJoker,
			PercentOfTM: pct,
			Reps:        req.GetInt("after_reps", 0),
		})
	}
	ladder := h.svc.Jokers(tm, week)
	out := map[string]any{
		"kind":   calc.JokerKindForWeek(week),
		"ladder": ladder,
	}
	if next, ok := h.svc.NextJoker(tm, week, performed); ok {
		out["next"] = next
	}
	return jsonResult(out)
}

func (h *handlers) nextTrainingMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkFinite(req, "current", "estimate"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lift, err := requireLift(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if current := req.GetFloat("current", 0); current > 0 {
		estimate := req.GetFloat("estimate", 0)
		return jsonResult(training.Progression{
			Lift:     lift,
			Style:    h.svc.Settings().Style,
			Current:  current,
			Estimate: estimate,
			Next:     h.svc.Progress(lift, current, estimate),
		})
	}

	p, err := h.svc.NextTrainingMax(ctx, UserIDFromContext(ctx), lift, req.GetInt("cycle", 1))
	if err != nil {
		return h.failure("next_training_max", err)
	}
	return jsonResult(p)
}

func (h *handlers) planDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkFinite(req, "training_max"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lift, err := requireLift(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}

	if tm := req.GetFloat("training_max", 0); tm > 0 {
		return jsonResult(h.svc.BuildDay(lift, week, tm))
	}
	day, err := h.svc.PlanDay(ctx, UserIDFromContext(ctx), lift, week)
	if err != nil {
		return h.failure("plan_day", err)
	}
	return jsonResult(day)
}

func (h *handlers) cycleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycle, err := req.RequireInt("cycle")
	if err != nil {
		return mcp.NewToolResultError("cycle parameter is required"), nil
	}
	status, err := h.svc.CycleStatus(ctx, UserIDFromContext(ctx), cycle)
	if err != nil {
		return h.failure("cycle_status", err)
	}
	return jsonResult(status)
}

func (h *handlers) logLift(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := requireLift(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cycle, err := req.RequireInt("cycle")
	if err != nil {
		return mcp.NewToolResultError("cycle parameter is required"), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	weight, err := requireFinite(req, "weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	res, err := h.svc.LogLift(ctx, UserIDFromContext(ctx), training.LogRequest{
		Cycle:     cycle,
		Week:      week,
		Lift:      lift,
		Weight:    weight,
		Reps:      reps,
		AMRAP:     req.GetBool("amrap", false),
		Accessory: req.GetBool("accessory", false),
	})
	if err != nil {
		return h.failure("log_lift", err)
	}
	return jsonResult(res)
}

func (h *handlers) setTrainingMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := requireLift(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := requireFinite(req, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := h.svc.SetTrainingMax(ctx, UserIDFromContext(ctx), lift,
		req.GetInt("cycle", 1), value, req.GetBool("one_rep_max", false))
	if err != nil {
		return h.failure("set_training_max", err)
	}
	return jsonResult(row)
}

func (h *handlers) advanceCycle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycle, err := req.RequireInt("cycle")
	if err != nil {
		return mcp.NewToolResultError("cycle parameter is required"), nil
	}
	progressions, err := h.svc.AdvanceCycle(ctx, UserIDFromContext(ctx), cycle)
	if err != nil {
		return h.failure("advance_cycle", err)
	}
	return jsonResult(progressions)
}
