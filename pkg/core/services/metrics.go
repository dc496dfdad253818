package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/db"
)

// MetricsStore defines the database operations needed to compute dashboard metrics
type MetricsStore interface {
	GetRoster(ctx context.Context) (*model.Roster, error)
	GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error)
}

// Metrics summarises the roster and the latest planning
type Metrics struct {
	Employees int `json:"employees"`
	Roles     int `json:"roles"`
	Shifts    int `json:"shifts"`

	// Planning figures are zero when no planning has been generated
	HasPlanning       bool       `json:"hasPlanning"`
	LatestPlanningID  string     `json:"latestPlanningId,omitempty"`
	LatestStartDate   string     `json:"latestStartDate,omitempty"`
	LatestGeneratedAt *time.Time `json:"latestGeneratedAt,omitempty"`
	Assignments       int        `json:"assignments"`
	Uncovered         int        `json:"uncovered"`
}

// GetMetrics counts roster entities and the slots of the latest planning.
// The roster and the planning are fetched concurrently; a missing one counts as empty.
func GetMetrics(ctx context.Context, store MetricsStore, logger *zap.Logger) (*Metrics, error) {
	var (
		roster *model.Roster
		record *db.PlanningRecord
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		roster, err = store.GetRoster(gCtx)
		if errors.Is(err, db.ErrNotFound) {
			logger.Debug("No roster stored")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fetch roster: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		record, err = store.GetLatestPlanning(gCtx)
		if errors.Is(err, db.ErrNotFound) {
			logger.Debug("No planning stored")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fetch latest planning: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := &Metrics{}
	if roster != nil {
		metrics.Employees = len(roster.Employees)
		metrics.Roles = len(roster.Roles)
		metrics.Shifts = len(roster.Shifts)
	}

	if record != nil {
		metrics.HasPlanning = true
		metrics.LatestPlanningID = record.ID
		metrics.LatestStartDate = record.StartDate
		generatedAt := record.GeneratedAt
		metrics.LatestGeneratedAt = &generatedAt
		for _, day := range record.Planning {
			for _, a := range day.Assignments {
				if a.IsUncovered() {
					metrics.Uncovered++
				} else {
					metrics.Assignments++
				}
			}
		}
	}

	return metrics, nil
}
