package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

// GeneratePlanningStore defines the database operations needed to generate a planning
type GeneratePlanningStore interface {
	GetRoster(ctx context.Context) (*model.Roster, error)
	InsertPlanning(ctx context.Context, record *db.PlanningRecord) error
}

// GeneratePlanningParams are the caller-supplied inputs of a generation.
// Zero values fall back to the configuration.
type GeneratePlanningParams struct {
	// StartDate (YYYY-MM-DD); defaults to the next Monday
	StartDate string

	HorizonDays int
}

// PlanningResult is the stored record together with the full generation outcome
type PlanningResult struct {
	Record  *db.PlanningRecord
	Outcome *planner.Outcome
}

// GeneratePlanning loads the roster, runs the planner and persists the result.
// A planning with uncovered slots is still stored; the caller decides how to report it.
func GeneratePlanning(
	ctx context.Context,
	store GeneratePlanningStore,
	cfg *config.Config,
	logger *zap.Logger,
	params GeneratePlanningParams,
) (*PlanningResult, error) {
	startDate := params.StartDate
	if startDate == "" {
		startDate = planner.NextMonday(time.Now()).Format(planner.DateLayout)
		logger.Debug("No start date given, using next Monday", zap.String("start_date", startDate))
	}
	horizonDays := params.HorizonDays
	if horizonDays <= 0 {
		horizonDays = cfg.HorizonDays()
	}

	start, err := time.Parse(planner.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", planner.ErrInvalidStartDate, startDate, err)
	}

	logger.Debug("Fetching roster")
	roster, err := store.GetRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	plan, err := planner.Normalize(*roster, cfg.PlannerDefaults())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare roster: %w: %w", ErrInvalidRoster, err)
	}
	logger.Debug("Roster normalized",
		zap.Int("employees", len(plan.Employees)),
		zap.Int("roles", len(plan.Roles)),
		zap.Int("shifts", len(plan.Shifts)))

	closures, err := convertOverrides(cfg.Overrides, planner.DateRange(start, horizonDays), logger)
	if err != nil {
		return nil, err
	}

	outcome, err := planner.Generate(plan, planner.Options{
		StartDate:       startDate,
		HorizonDays:     horizonDays,
		ImportanceOrder: cfg.ImportanceOrder(),
		ExtendToTarget:  cfg.ExtendToTarget(),
		Closures:        closures,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate planning: %w", err)
	}

	for _, decision := range outcome.Trace {
		if decision.Eligible() {
			continue
		}
		logger.Debug("Candidate rejected",
			zap.String("phase", string(decision.Phase)),
			zap.String("date", decision.Date),
			zap.String("shift", decision.ShiftID),
			zap.String("role", decision.RoleID),
			zap.String("employee", decision.EmployeeID),
			zap.String("reason", string(decision.Reason)),
			zap.String("detail", decision.Detail))
	}
	for _, violation := range outcome.ValidationErrors {
		logger.Warn("Planning violates a constraint",
			zap.String("rule", violation.Rule),
			zap.String("date", violation.Date),
			zap.String("employee", violation.EmployeeID),
			zap.String("description", violation.Description))
	}

	record := &db.PlanningRecord{
		ID:            uuid.New().String(),
		StartDate:     startDate,
		HorizonDays:   horizonDays,
		FormatVersion: db.PlanningFormatVersion,
		GeneratedAt:   time.Now().UTC(),
		Uncovered:     outcome.Uncovered,
		Planning:      outcome.Planning,
	}

	if err := store.InsertPlanning(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store planning: %w", err)
	}

	logger.Info("Planning generated",
		zap.String("planning_id", record.ID),
		zap.String("start_date", startDate),
		zap.Int("days", horizonDays),
		zap.Int("uncovered", outcome.Uncovered),
		zap.Bool("success", outcome.Success))

	return &PlanningResult{Record: record, Outcome: outcome}, nil
}

// convertOverrides turns the configured RRULE overrides into planner closures.
// Occurrences are expanded once over the planned dates (with a week of margin).
func convertOverrides(overrides []config.ShiftOverride, dates []time.Time, logger *zap.Logger) ([]planner.Closure, error) {
	closures := make([]planner.Closure, 0, len(overrides))
	if len(dates) == 0 {
		return closures, nil
	}

	searchStart := dates[0].AddDate(0, 0, -7)
	searchEnd := dates[len(dates)-1].AddDate(0, 0, 7)

	for i, override := range overrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for override %d: %w", i, err)
		}
		rule.DTStart(searchStart)

		matches := make(map[string]bool)
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			matches[occurrence.Format(planner.DateLayout)] = true
		}

		closures = append(closures, planner.Closure{
			AppliesTo: func(date string) bool { return matches[date] },
			ShiftIDs:  override.ShiftIDs,
		})

		logger.Debug("Converted override",
			zap.Int("index", i),
			zap.String("rrule", override.RRule),
			zap.Strings("shift_ids", override.ShiftIDs),
			zap.Int("matching_dates", len(matches)))
	}

	return closures, nil
}
