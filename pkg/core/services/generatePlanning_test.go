package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/core/planner"
	"github.com/jakechorley/turnify/pkg/db"
)

func TestGeneratePlanning_Success(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{roster: SimulationRoster()}
	cfg := &config.Config{}

	result, err := GeneratePlanning(ctx, store, cfg, zap.NewNop(), GeneratePlanningParams{
		StartDate:   "2025-01-06",
		HorizonDays: 14,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, store.plannings, 1)
	record := store.plannings[0]
	assert.Same(t, result.Record, record)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "2025-01-06", record.StartDate)
	assert.Equal(t, 14, record.HorizonDays)
	assert.Equal(t, db.PlanningFormatVersion, record.FormatVersion)
	assert.Len(t, record.Planning, 14)
	assert.Equal(t, result.Outcome.Uncovered, record.Uncovered)
	assert.Equal(t, record.Planning.UncoveredCount(), record.Uncovered)
	assert.Empty(t, result.Outcome.ValidationErrors)
}

func TestGeneratePlanning_DefaultsFromConfig(t *testing.T) {
	store := &mockStore{roster: SimulationRoster()}
	cfg := &config.Config{Planning: config.PlanningConfig{HorizonDays: 3}}

	result, err := GeneratePlanning(context.Background(), store, cfg, zap.NewNop(), GeneratePlanningParams{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Record.HorizonDays)
	assert.Len(t, result.Record.Planning, 3)

	start, err := time.Parse(planner.DateLayout, result.Record.StartDate)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, start.Weekday())
}

func TestGeneratePlanning_OverridesCloseShifts(t *testing.T) {
	store := &mockStore{roster: SimulationRoster()}
	cfg := &config.Config{
		Overrides: []config.ShiftOverride{
			{RRule: "FREQ=WEEKLY;BYDAY=SU", Description: "Closed on Sundays"},
			{RRule: "FREQ=WEEKLY;BYDAY=SA", ShiftIDs: []string{"afternoon"}},
		},
	}

	result, err := GeneratePlanning(context.Background(), store, cfg, zap.NewNop(), GeneratePlanningParams{
		StartDate:   "2025-01-06",
		HorizonDays: 7,
	})
	require.NoError(t, err)

	sunday := result.Record.Planning["2025-01-12"]
	require.NotNil(t, sunday)
	assert.Empty(t, sunday.Assignments)

	saturday := result.Record.Planning["2025-01-11"]
	require.NotNil(t, saturday)
	require.NotEmpty(t, saturday.Assignments)
	for _, a := range saturday.Assignments {
		assert.Equal(t, "morning", a.ShiftID)
	}

	monday := result.Record.Planning["2025-01-06"]
	require.NotNil(t, monday)
	shifts := map[string]bool{}
	for _, a := range monday.Assignments {
		shifts[a.ShiftID] = true
	}
	assert.True(t, shifts["morning"])
	assert.True(t, shifts["afternoon"])
}

func TestGeneratePlanning_InvalidStartDate(t *testing.T) {
	store := &mockStore{roster: SimulationRoster()}

	_, err := GeneratePlanning(context.Background(), store, &config.Config{}, zap.NewNop(), GeneratePlanningParams{StartDate: "06/01/2025"})
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrInvalidStartDate)
	assert.Empty(t, store.plannings)
}

func TestGeneratePlanning_MissingRoster(t *testing.T) {
	store := &mockStore{}

	_, err := GeneratePlanning(context.Background(), store, &config.Config{}, zap.NewNop(), GeneratePlanningParams{StartDate: "2025-01-06"})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGeneratePlanning_InsertFails(t *testing.T) {
	store := &mockStore{roster: SimulationRoster(), insertErr: errors.New("disk full")}

	_, err := GeneratePlanning(context.Background(), store, &config.Config{}, zap.NewNop(), GeneratePlanningParams{StartDate: "2025-01-06", HorizonDays: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestConvertOverrides(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	dates := planner.DateRange(start, 14)

	closures, err := convertOverrides([]config.ShiftOverride{
		{RRule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO", ShiftIDs: []string{"morning"}},
	}, dates, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, closures, 1)

	assert.Equal(t, []string{"morning"}, closures[0].ShiftIDs)

	matched := 0
	for _, d := range dates {
		if closures[0].AppliesTo(d.Format(planner.DateLayout)) {
			matched++
			assert.Equal(t, time.Monday, d.Weekday())
		}
	}
	assert.Equal(t, 1, matched)
}

func TestConvertOverrides_InvalidRule(t *testing.T) {
	dates := planner.DateRange(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 7)
	_, err := convertOverrides([]config.ShiftOverride{{RRule: "FREQ=SOMETIMES"}}, dates, zap.NewNop())
	assert.Error(t, err)
}
