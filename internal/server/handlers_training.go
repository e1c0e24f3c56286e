package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/liftcalc/internal/export"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
	"github.com/claude/liftcalc/internal/training"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleLogLift(w http.ResponseWriter, r *http.Request) {
	var req training.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.svc.LogLift(r.Context(), userIDFromContext(r), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListLifts(w http.ResponseWriter, r *http.Request) {
	cycle, err := intParam(r, "cycle", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	logs, err := s.svc.History(r.Context(), userIDFromContext(r), cycle)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if logs == nil {
		logs = []models.LiftLogRow{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Records(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []models.PersonalRecordRow{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTrainingMaxes(w http.ResponseWriter, r *http.Request) {
	tms, err := s.svc.TrainingMaxes(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rows := make([]models.TrainingMaxRow, 0, len(tms))
	for _, lift := range models.MainLifts {
		if row, ok := tms[lift]; ok {
			rows = append(rows, row)
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

type setTrainingMaxRequest struct {
	Value     float64 `json:"value"`
	Cycle     int     `json:"cycle"`
	OneRepMax bool    `json:"one_rep_max"`
}

func (s *Server) handleSetTrainingMax(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLift(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req setTrainingMaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Cycle == 0 {
		req.Cycle = 1
	}

	row, err := s.svc.SetTrainingMax(r.Context(), userIDFromContext(r), lift, req.Cycle, req.Value, req.OneRepMax)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleNextTrainingMax(w http.ResponseWriter, r *http.Request) {
	lift, err := models.ParseLift(chi.URLParam(r, "lift"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cycle, err := intParam(r, "cycle", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if cycle == 0 {
		cycle = 1
	}

	p, err := s.svc.NextTrainingMax(r.Context(), userIDFromContext(r), lift, cycle)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCycleStatus(w http.ResponseWriter, r *http.Request) {
	cycle, ok := cycleParam(w, r)
	if !ok {
		return
	}
	status, err := s.svc.CycleStatus(r.Context(), userIDFromContext(r), cycle)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleAdvanceCycle(w http.ResponseWriter, r *http.Request) {
	cycle, ok := cycleParam(w, r)
	if !ok {
		return
	}
	progressions, err := s.svc.AdvanceCycle(r.Context(), userIDFromContext(r), cycle)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressions)
}

// handleProgram returns the cycle as JSON, or as a workbook with
// ?format=xlsx.
func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	cycle, ok := cycleParam(w, r)
	if !ok {
		return
	}
	prog, err := s.svc.Program(r.Context(), userIDFromContext(r), cycle, program.DefaultPlan(cycle))
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, prog)
	case "xlsx":
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="liftcalc-cycle-%d.xlsx"`, cycle))
		if err := export.Write(prog, w); err != nil {
			s.log.Error("writing workbook", "cycle", cycle, "error", err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be json or xlsx"})
	}
}

func cycleParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	cycle, err := strconv.Atoi(chi.URLParam(r, "cycle"))
	if err != nil || cycle <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cycle"})
		return 0, false
	}
	return cycle, true
}
