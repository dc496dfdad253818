package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

const rosterYAML = `
roles:
  - id: cashier
    name: Cashier
    color: "#22d3ee"
shifts:
  - id: morning
    name: Morning
    start: "08:00"
    end: "16:00"
    roles: [cashier]
employees:
  - id: alice
    name: Alice
    roles: [cashier]
    weeklyHours: 32
    unavailability:
      - day: sunday
        from: "00:00"
        to: "00:00"
`

func TestParseRoster_YAML(t *testing.T) {
	roster, err := ParseRoster("roster.yaml", []byte(rosterYAML))
	require.NoError(t, err)

	require.Len(t, roster.Employees, 1)
	assert.Equal(t, "alice", roster.Employees[0].ID)
	require.NotNil(t, roster.Employees[0].WeeklyHours)
	assert.Equal(t, 32.0, *roster.Employees[0].WeeklyHours)
	require.Len(t, roster.Employees[0].Unavailability, 1)
	assert.Equal(t, "sunday", roster.Employees[0].Unavailability[0].Day)
	assert.Equal(t, "#22d3ee", roster.Roles[0].Color)
}

func TestParseRoster_JSON(t *testing.T) {
	data := `{
		"roles": [{"id": "cashier", "name": "Cashier"}],
		"shifts": [{"id": "morning", "name": "Morning", "start": "08:00", "end": "16:00", "roles": ["cashier"]}],
		"employees": [{"id": "alice", "name": "Alice", "roles": ["cashier"], "importance": 3}]
	}`

	roster, err := ParseRoster("ROSTER.JSON", []byte(data))
	require.NoError(t, err)
	require.Len(t, roster.Employees, 1)
	require.NotNil(t, roster.Employees[0].Importance)
	assert.Equal(t, 3, *roster.Employees[0].Importance)
}

func TestParseRoster_UnknownFields(t *testing.T) {
	_, err := ParseRoster("roster.json", []byte(`{"employes": []}`))
	assert.ErrorIs(t, err, ErrInvalidRoster)

	_, err = ParseRoster("roster.yml", []byte("employes: []\n"))
	assert.Error(t, err)
}

func TestImportRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rosterYAML), 0644))

	store := &mockStore{}
	roster, err := ImportRoster(context.Background(), store, zap.NewNop(), path)
	require.NoError(t, err)

	assert.Same(t, roster, store.roster)
}

func TestImportRoster_MissingFile(t *testing.T) {
	store := &mockStore{}
	_, err := ImportRoster(context.Background(), store, zap.NewNop(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Nil(t, store.roster)
}

func TestSaveRoster_InvalidRosterNotSaved(t *testing.T) {
	roster := &model.Roster{
		Roles:  []model.Role{{ID: "cashier", Name: "Cashier"}},
		Shifts: []model.Shift{{ID: "morning", Name: "Morning", Start: "08:00", End: "16:00", Roles: []string{"cashier"}}},
		Employees: []model.Employee{
			{ID: "alice", Name: "Alice", Roles: []string{"baker"}},
		},
	}

	store := &mockStore{}
	err := SaveRoster(context.Background(), store, zap.NewNop(), roster)
	assert.ErrorIs(t, err, ErrInvalidRoster)
	assert.Nil(t, store.roster)
}

func TestSeedRoster(t *testing.T) {
	store := &mockStore{plannings: []*db.PlanningRecord{{ID: "old"}}}

	roster, err := SeedRoster(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	assert.Same(t, roster, store.roster)
	assert.True(t, store.cleared)
	assert.Empty(t, store.plannings)
}

func TestSimulationRoster(t *testing.T) {
	roster := SimulationRoster()
	require.NoError(t, planner.ValidateRoster(roster))

	assert.Len(t, roster.Employees, 10)
	assert.Len(t, roster.Roles, 4)
	assert.Len(t, roster.Shifts, 2)

	assert.Len(t, roster.Employees[0].Roles, 4)
	assert.Len(t, roster.Employees[4].Roles, 3)
	assert.Len(t, roster.Employees[9].Roles, 2)
	assert.Equal(t, 1, *roster.Employees[0].Importance)
	assert.Equal(t, 1, *roster.Employees[5].Importance)

	plan, err := planner.Normalize(*roster, planner.DefaultDefaults())
	require.NoError(t, err)
	assert.Equal(t, 11.0, plan.Constraints.MinRestHours)
	assert.Equal(t, 30, plan.Constraints.BreakMinutes)
}
