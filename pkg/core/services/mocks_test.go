package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/turnify/pkg/clients/sheetsclient"
	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/db"
)

// mockStore is an in-memory db.Database
type mockStore struct {
	roster    *model.Roster
	plannings []*db.PlanningRecord

	rosterErr   error
	planningErr error
	insertErr   error
	cleared     bool
}

func (m *mockStore) GetRoster(ctx context.Context) (*model.Roster, error) {
	if m.rosterErr != nil {
		return nil, m.rosterErr
	}
	if m.roster == nil {
		return nil, fmt.Errorf("roster: %w", db.ErrNotFound)
	}
	return m.roster, nil
}

func (m *mockStore) SaveRoster(ctx context.Context, roster *model.Roster) error {
	m.roster = roster
	return nil
}

func (m *mockStore) GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error) {
	if m.planningErr != nil {
		return nil, m.planningErr
	}
	if len(m.plannings) == 0 {
		return nil, fmt.Errorf("planning: %w", db.ErrNotFound)
	}
	return m.plannings[len(m.plannings)-1], nil
}

func (m *mockStore) InsertPlanning(ctx context.Context, record *db.PlanningRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.plannings = append(m.plannings, record)
	return nil
}

func (m *mockStore) ClearPlannings(ctx context.Context) error {
	m.plannings = nil
	m.cleared = true
	return nil
}

func (m *mockStore) Close() error {
	return nil
}

var _ db.Database = (*mockStore)(nil)

// mockSheetsClient records what was published
type mockSheetsClient struct {
	spreadsheetID string
	published     *sheetsclient.PublishedPlanning
	err           error
}

func (m *mockSheetsClient) PublishPlanning(spreadsheetID string, published *sheetsclient.PublishedPlanning) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.published = published
	return nil
}
