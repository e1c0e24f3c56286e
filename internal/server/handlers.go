package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/training"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	weight, err := floatParam(r, "weight", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	bar, err := floatParam(r, "bar", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Plates(weight, bar))
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	weight, err := floatParam(r, "weight", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lift, err := models.ParseLift(r.URL.Query().Get("lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lift":   lift,
		"target": weight,
		"steps":  s.svc.WarmupPlates(weight, lift),
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	weight, err := floatParam(r, "weight", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	reps, err := intParam(r, "reps", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	est := s.svc.Estimate(weight, reps)
	writeJSON(w, http.StatusOK, map[string]any{
		"estimate": est,
		"message":  est.Note.Message(),
	})
}

func (s *Server) handleWeekScheme(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week"})
		return
	}
	tm, err := floatParam(r, "training_max", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	out := map[string]any{"scheme": calc.WeekSchemeFor(week)}
	if tm > 0 {
		out["sets"] = s.svc.WeekSets(week, tm)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJokers(w http.ResponseWriter, r *http.Request) {
	tm, err := floatParam(r, "training_max", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	week, err := intParam(r, "week", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	afterPct, err := floatParam(r, "after_percent", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	afterReps, err := intParam(r, "after_reps", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var performed []calc.SetPrescription
	if afterPct > 0 {
		performed = append(performed, calc.SetPrescription{Kind: calc.SetJoker, PercentOfTM: afterPct, Reps: afterReps})
	}
	out := map[string]any{
		"kind":   calc.JokerKindForWeek(week),
		"ladder": s.svc.Jokers(tm, week),
	}
	if next, ok := s.svc.NextJoker(tm, week, performed); ok {
		out["next"] = next
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLift(r.URL.Query().Get("lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	current, err := floatParam(r, "current", true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	estimate, err := floatParam(r, "estimate", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, training.Progression{
		Lift:     lift,
		Style:    s.svc.Settings().Style,
		Current:  current,
		Estimate: estimate,
		Next:     s.svc.Progress(lift, current, estimate),
	})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLift(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week"})
		return
	}
	tm, err := floatParam(r, "training_max", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if tm > 0 {
		writeJSON(w, http.StatusOK, s.svc.BuildDay(lift, week, tm))
		return
	}

	day, err := s.svc.PlanDay(r.Context(), userIDFromContext(r), lift, week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"response encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// writeError maps service errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, training.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, training.ErrNoTrainingMax):
		status = http.StatusNotFound
	case errors.Is(err, training.ErrCycleIncomplete):
		status = http.StatusConflict
	case errors.Is(err, training.ErrNoStore):
		status = http.StatusServiceUnavailable
	default:
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func floatParam(r *http.Request, name string, required bool) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s parameter required", name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func intParam(r *http.Request, name string, required bool) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s parameter required", name)
		}
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
