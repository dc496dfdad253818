package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

// ErrInvalidRoster is returned when a roster fails validation
var ErrInvalidRoster = errors.New("invalid roster")

// SeedStore defines the database operations needed to replace the roster with demo data
type SeedStore interface {
	db.RosterStore
	ClearPlannings(ctx context.Context) error
}

// ParseRoster decodes a roster from JSON or YAML. The format is chosen from
// the file extension; anything that is not ".json" is read as YAML.
func ParseRoster(name string, data []byte) (*model.Roster, error) {
	var roster model.Roster
	if strings.EqualFold(filepath.Ext(name), ".json") {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&roster); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %w", ErrInvalidRoster, err)
		}
		return &roster, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&roster); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalidRoster, err)
	}
	return &roster, nil
}

// ImportRoster reads a roster file, validates it and replaces the stored roster
func ImportRoster(ctx context.Context, store db.RosterStore, logger *zap.Logger, path string) (*model.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	roster, err := ParseRoster(path, data)
	if err != nil {
		return nil, err
	}

	if err := SaveRoster(ctx, store, logger, roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// SaveRoster validates the roster and replaces the stored one
func SaveRoster(ctx context.Context, store db.RosterStore, logger *zap.Logger, roster *model.Roster) error {
	if err := planner.ValidateRoster(roster); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}

	if err := store.SaveRoster(ctx, roster); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}

	logger.Info("Roster saved",
		zap.Int("employees", len(roster.Employees)),
		zap.Int("roles", len(roster.Roles)),
		zap.Int("shifts", len(roster.Shifts)))
	return nil
}

// SeedRoster replaces the roster with the demo data set and drops stored plannings
func SeedRoster(ctx context.Context, store SeedStore, logger *zap.Logger) (*model.Roster, error) {
	roster := SimulationRoster()
	if err := SaveRoster(ctx, store, logger, roster); err != nil {
		return nil, err
	}
	if err := store.ClearPlannings(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear plannings: %w", err)
	}
	logger.Info("Demo roster seeded")
	return roster, nil
}

// SimulationRoster is a demo data set: ten employees over four roles staffing
// a morning and an afternoon shift
func SimulationRoster() *model.Roster {
	roster := &model.Roster{
		Roles: []model.Role{
			{ID: "delivery-am", Name: "Store delivery (morning)", Color: "#22d3ee", Level: model.Int(1), MinCoverage: model.Int(1), MaxCoverage: model.Int(2)},
			{ID: "delivery-pm", Name: "Store delivery (afternoon)", Color: "#0ea5e9", Level: model.Int(1), MinCoverage: model.Int(1), MaxCoverage: model.Int(2)},
			{ID: "sniper", Name: "Sniper", Color: "#ef4444", Level: model.Int(2), MinCoverage: model.Int(1), MaxCoverage: model.Int(1)},
			{ID: "forklift", Name: "Forklift", Color: "#f59e0b", Level: model.Int(3), MinCoverage: model.Int(1), MaxCoverage: model.Int(2)},
		},
		Shifts: []model.Shift{
			{ID: "morning", Name: "Morning", Start: "06:00", End: "14:30", Roles: []string{"sniper", "delivery-am", "forklift"}},
			{ID: "afternoon", Name: "Afternoon", Start: "13:30", End: "22:00", Roles: []string{"sniper", "delivery-pm", "forklift"}},
		},
		Constraints: model.Constraints{
			MinRestHours:      model.Float(11),
			DefaultDailyHours: model.Float(8),
			BreakAfterHours:   model.Float(6),
			BreakMinutes:      model.Int(30),
		},
	}

	names := []string{
		"Alessio Moretti", "Beatrice Villa", "Carlo Gentile", "Davide Conti", "Elena Fabbri",
		"Fabio Leone", "Giulia Serra", "Hamed Saidi", "Irene Bellini", "Jacopo Ferri",
	}
	for i, name := range names {
		var roles []string
		switch {
		case i < 4:
			roles = []string{"delivery-am", "delivery-pm", "sniper", "forklift"}
		case i < 6:
			roles = []string{"delivery-am", "delivery-pm", "sniper"}
		default:
			roles = []string{"delivery-am", "delivery-pm"}
		}
		roster.Employees = append(roster.Employees, model.Employee{
			ID:          fmt.Sprintf("emp-%02d", i+1),
			Name:        name,
			Roles:       roles,
			WeeklyHours: model.Float(40),
			DailyHours:  model.Float(8),
			Importance:  model.Int(i%5 + 1),
		})
	}

	return roster
}
