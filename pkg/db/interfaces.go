package db

import (
	"context"
	"errors"

	"github.com/jakechorley/turnify/pkg/core/model"
)

// ErrNotFound is returned when the requested roster or planning does not exist
var ErrNotFound = errors.New("not found")

// RosterStore defines the interface for roster persistence
type RosterStore interface {
	GetRoster(ctx context.Context) (*model.Roster, error)
	SaveRoster(ctx context.Context, roster *model.Roster) error
}

// PlanningStore defines the interface for planning persistence
type PlanningStore interface {
	GetLatestPlanning(ctx context.Context) (*PlanningRecord, error)
	InsertPlanning(ctx context.Context, record *PlanningRecord) error
	ClearPlannings(ctx context.Context) error
}

// Database defines the interface for all storage operations.
// The file-backed db.DB, postgres.DB and sqlite.DB implement this interface.
type Database interface {
	RosterStore
	PlanningStore
	Close() error
}
