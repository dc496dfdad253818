package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

// PlanningReader defines the database operation needed to read the latest planning
type PlanningReader interface {
	GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error)
}

// ExportEnvelope is the portable JSON form of a planning
type ExportEnvelope struct {
	Version     int              `json:"version"`
	ID          string           `json:"id"`
	StartDate   string           `json:"startDate"`
	HorizonDays int              `json:"horizonDays"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Planning    planner.Planning `json:"planning"`
}

// ExportPlanning wraps the latest planning in an export envelope
func ExportPlanning(ctx context.Context, store PlanningReader, logger *zap.Logger) (*ExportEnvelope, error) {
	record, err := store.GetLatestPlanning(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest planning: %w", err)
	}

	logger.Debug("Exporting planning", zap.String("planning_id", record.ID), zap.Int("days", len(record.Planning)))

	return &ExportEnvelope{
		Version:     db.PlanningFormatVersion,
		ID:          record.ID,
		StartDate:   record.StartDate,
		HorizonDays: record.HorizonDays,
		GeneratedAt: record.GeneratedAt,
		Planning:    record.Planning,
	}, nil
}

// WriteExport writes the envelope as indented JSON
func WriteExport(w io.Writer, envelope *ExportEnvelope) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(envelope); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFileName returns the conventional file name for an exported planning
func ExportFileName(envelope *ExportEnvelope) string {
	return fmt.Sprintf("planning_%s.json", envelope.StartDate)
}
