package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

func TestGetMetrics(t *testing.T) {
	generatedAt := time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	planning := matrixPlanning(2)
	planning["2025-01-06"].Assignments = append(planning["2025-01-06"].Assignments,
		matrixAssignment("", planner.UncoveredName, "forklift", "Forklift", "#f59e0b", 480))

	store := &mockStore{
		roster: SimulationRoster(),
		plannings: []*db.PlanningRecord{
			{ID: "p1", StartDate: "2025-01-06", GeneratedAt: generatedAt, Planning: planning},
		},
	}

	metrics, err := GetMetrics(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 10, metrics.Employees)
	assert.Equal(t, 4, metrics.Roles)
	assert.Equal(t, 2, metrics.Shifts)
	assert.True(t, metrics.HasPlanning)
	assert.Equal(t, "p1", metrics.LatestPlanningID)
	assert.Equal(t, "2025-01-06", metrics.LatestStartDate)
	require.NotNil(t, metrics.LatestGeneratedAt)
	assert.True(t, generatedAt.Equal(*metrics.LatestGeneratedAt))
	assert.Equal(t, 2, metrics.Assignments)
	assert.Equal(t, 1, metrics.Uncovered)
}

func TestGetMetrics_EmptyStore(t *testing.T) {
	metrics, err := GetMetrics(context.Background(), &mockStore{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, &Metrics{}, metrics)
}

func TestGetMetrics_StoreError(t *testing.T) {
	store := &mockStore{roster: SimulationRoster(), planningErr: errors.New("connection refused")}

	_, err := GetMetrics(context.Background(), store, zap.NewNop())
	assert.Error(t, err)
}

func TestExportPlanning(t *testing.T) {
	generatedAt := time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	store := &mockStore{
		plannings: []*db.PlanningRecord{
			{ID: "p1", StartDate: "2025-01-06", HorizonDays: 2, GeneratedAt: generatedAt, Planning: matrixPlanning(2)},
		},
	}

	envelope, err := ExportPlanning(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, db.PlanningFormatVersion, envelope.Version)
	assert.Equal(t, "p1", envelope.ID)
	assert.Equal(t, "planning_2025-01-06.json", ExportFileName(envelope))

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, envelope))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["version"])
	assert.Equal(t, "2025-01-06", decoded["startDate"])
	assert.Equal(t, "2025-01-03T10:00:00Z", decoded["generatedAt"])

	days, ok := decoded["planning"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, days, 2)
	assert.Contains(t, days, "2025-01-07")
}

func TestExportPlanning_NoPlanning(t *testing.T) {
	_, err := ExportPlanning(context.Background(), &mockStore{}, zap.NewNop())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestClearPlanning(t *testing.T) {
	store := &mockStore{plannings: []*db.PlanningRecord{{ID: "p1"}, {ID: "p2"}}}

	require.NoError(t, ClearPlanning(context.Background(), store, zap.NewNop()))
	assert.True(t, store.cleared)

	_, err := store.GetLatestPlanning(context.Background())
	assert.ErrorIs(t, err, db.ErrNotFound)
}
