package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/core/services"
	"github.com/jakechorley/turnify/pkg/db"
)

// GeneratePlanningRequest is the body of POST /plannings; both fields are optional
type GeneratePlanningRequest struct {
	StartDate   string `json:"startDate"`
	HorizonDays int    `json:"horizonDays"`
}

// GeneratePlanningResponse reports a generated planning
type GeneratePlanningResponse struct {
	Planning         *db.PlanningRecord        `json:"planning"`
	Success          bool                      `json:"success"`
	Uncovered        int                       `json:"uncovered"`
	ValidationErrors []planner.ValidationError `json:"validationErrors"`
}

// PlanningMatrixResponse is the latest planning laid out week by week
type PlanningMatrixResponse struct {
	PlanningID string                `json:"planningId"`
	StartDate  string                `json:"startDate"`
	Weeks      []services.WeekMatrix `json:"weeks"`
}

// getRoster handles GET /roster
func (s *server) getRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.store.GetRoster(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, roster)
}

// putRoster handles PUT /roster
func (s *server) putRoster(w http.ResponseWriter, r *http.Request) {
	var roster model.Roster
	if err := decodeBody(w, r, &roster); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		badRequest(w, err.Error())
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := services.SaveRoster(r.Context(), s.store, s.logger, &roster); err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, &roster)
}

// generatePlanning handles POST /plannings
func (s *server) generatePlanning(w http.ResponseWriter, r *http.Request) {
	var req GeneratePlanningRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, err.Error())
		return
	}
	if req.HorizonDays < 0 {
		badRequest(w, "horizonDays must be positive")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := services.GeneratePlanning(r.Context(), s.store, s.cfg, s.logger, services.GeneratePlanningParams{
		StartDate:   req.StartDate,
		HorizonDays: req.HorizonDays,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	violations := result.Outcome.ValidationErrors
	if violations == nil {
		violations = []planner.ValidationError{}
	}
	created(w, "planning generated", GeneratePlanningResponse{
		Planning:         result.Record,
		Success:          result.Outcome.Success,
		Uncovered:        result.Outcome.Uncovered,
		ValidationErrors: violations,
	})
}

// getLatestPlanning handles GET /plannings/latest
func (s *server) getLatestPlanning(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.GetLatestPlanning(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, record)
}

// exportPlanning handles GET /plannings/latest/export as a JSON download
func (s *server) exportPlanning(w http.ResponseWriter, r *http.Request) {
	envelope, err := services.ExportPlanning(r.Context(), s.store, s.logger)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFileName(envelope)))
	if err := services.WriteExport(w, envelope); err != nil {
		s.logger.Error("Failed to write export", zap.Error(err))
	}
}

// getPlanningMatrix handles GET /plannings/latest/matrix
func (s *server) getPlanningMatrix(w http.ResponseWriter, r *http.Request) {
	record, weeks, err := services.PlanningMatrix(r.Context(), s.store, s.cfg, s.logger)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, PlanningMatrixResponse{
		PlanningID: record.ID,
		StartDate:  record.StartDate,
		Weeks:      weeks,
	})
}

// clearPlannings handles DELETE /plannings
func (s *server) clearPlannings(w http.ResponseWriter, r *http.Request) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := services.ClearPlanning(r.Context(), s.store, s.logger); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getMetrics handles GET /metrics
func (s *server) getMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := services.GetMetrics(r.Context(), s.store, s.logger)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, metrics)
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
// An empty body yields io.EOF.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
