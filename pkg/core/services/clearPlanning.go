package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PlanningClearer defines the database operation needed to clear plannings
type PlanningClearer interface {
	ClearPlannings(ctx context.Context) error
}

// ClearPlanning removes every stored planning
func ClearPlanning(ctx context.Context, store PlanningClearer, logger *zap.Logger) error {
	if err := store.ClearPlannings(ctx); err != nil {
		return fmt.Errorf("failed to clear plannings: %w", err)
	}
	logger.Info("Plannings cleared")
	return nil
}
