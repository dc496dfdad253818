package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "turnify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, generatedAt time.Time) *db.PlanningRecord {
	start := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	return &db.PlanningRecord{
		ID:            id,
		StartDate:     "2025-01-06",
		HorizonDays:   1,
		FormatVersion: db.PlanningFormatVersion,
		GeneratedAt:   generatedAt,
		Uncovered:     1,
		Planning: planner.Planning{
			"2025-01-06": {
				Date:    "2025-01-06",
				Weekday: "monday",
				Assignments: []planner.Assignment{
					{EmployeeID: "e1", EmployeeName: "Alice", ShiftID: "morning", RoleID: "cashier", StartAt: start, EndAt: start.Add(8 * time.Hour), NetMinutes: 450},
					{EmployeeName: planner.UncoveredName, ShiftID: "morning", RoleID: "cashier", StartAt: start, EndAt: start.Add(8 * time.Hour), NetMinutes: 450, Warning: true},
				},
			},
		},
	}
}

func TestRosterRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)

	_, err := store.GetRoster(ctx)
	assert.ErrorIs(t, err, db.ErrNotFound)

	roster := &model.Roster{
		Employees: []model.Employee{{ID: "e1", Name: "Alice", Roles: []string{"cashier"}}},
		Roles:     []model.Role{{ID: "cashier", Name: "Cashier", Color: "#ff7f0e"}},
		Shifts:    []model.Shift{{ID: "morning", Name: "Morning", Start: "07:00", End: "15:00", Roles: []string{"cashier"}}},
	}
	require.NoError(t, store.SaveRoster(ctx, roster))

	roster.Employees[0].Name = "Alice Smith"
	require.NoError(t, store.SaveRoster(ctx, roster), "saving again replaces the roster")

	loaded, err := store.GetRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, roster, loaded)
}

func TestPlanningLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)

	_, err := store.GetLatestPlanning(ctx)
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, store.InsertPlanning(ctx, testRecord("first", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))))
	require.NoError(t, store.InsertPlanning(ctx, testRecord("second", time.Date(2025, 1, 1, 10, 0, 0, 500, time.UTC))))

	latest, err := store.GetLatestPlanning(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.ID)
	assert.Equal(t, "2025-01-06", latest.StartDate)
	assert.Equal(t, 1, latest.Uncovered)
	assert.True(t, latest.GeneratedAt.Equal(time.Date(2025, 1, 1, 10, 0, 0, 500, time.UTC)))
	require.Contains(t, latest.Planning, "2025-01-06")
	assert.Equal(t, "e1", latest.Planning["2025-01-06"].Assignments[0].EmployeeID)

	count, err := store.AssignmentCount(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.ClearPlannings(ctx))

	_, err = store.GetLatestPlanning(ctx)
	assert.ErrorIs(t, err, db.ErrNotFound)

	count, err = store.AssignmentCount(ctx, "second")
	require.NoError(t, err)
	assert.Zero(t, count, "assignments cascade with their planning")
}
