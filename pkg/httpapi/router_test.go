package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/core/services"
	"github.com/jakechorley/turnify/pkg/db"
)

type testAPI struct {
	t       *testing.T
	store   *db.DB
	handler http.Handler
}

func newTestAPI(t *testing.T, cfg *config.Config) *testAPI {
	t.Helper()
	store, err := db.NewDB(t.TempDir())
	require.NoError(t, err)
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &testAPI{
		t:       t,
		store:   store,
		handler: NewRouter(Deps{Store: store, Config: cfg, Logger: zap.NewNop()}),
	}
}

func (a *testAPI) seed() {
	a.t.Helper()
	_, err := services.SeedRoster(context.Background(), a.store, zap.NewNop())
	require.NoError(a.t, err)
}

func (a *testAPI) request(method, path string, body []byte) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) Response {
	t.Helper()
	resp := Response{Data: data}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestRoster_NotFound(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.request(http.MethodGet, "/api/v1/roster", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec, nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestRoster_PutAndGet(t *testing.T) {
	api := newTestAPI(t, nil)

	body := []byte(`{
		"roles": [{"id": "cashier", "name": "Cashier", "color": "#22d3ee"}],
		"shifts": [{"id": "morning", "name": "Morning", "start": "08:00", "end": "16:00", "roles": ["cashier"]}],
		"employees": [{"id": "alice", "name": "Alice", "roles": ["cashier"]}]
	}`)
	rec := api.request(http.MethodPut, "/api/v1/roster", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.request(http.MethodGet, "/api/v1/roster", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var roster struct {
		Employees []struct {
			ID string `json:"id"`
		} `json:"employees"`
	}
	resp := decodeResponse(t, rec, &roster)
	assert.True(t, resp.Success)
	require.Len(t, roster.Employees, 1)
	assert.Equal(t, "alice", roster.Employees[0].ID)
}

func TestRoster_PutInvalid(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"malformed json", `{"roles": [`},
		{"unknown field", `{"staff": []}`},
		{"unknown role", `{
			"roles": [{"id": "cashier", "name": "Cashier"}],
			"shifts": [{"id": "morning", "name": "Morning", "start": "08:00", "end": "16:00", "roles": ["baker"]}],
			"employees": [{"id": "alice", "name": "Alice", "roles": ["cashier"]}]
		}`},
		{"bad clock", `{
			"roles": [{"id": "cashier", "name": "Cashier"}],
			"shifts": [{"id": "morning", "name": "Morning", "start": "8am", "end": "16:00", "roles": ["cashier"]}],
			"employees": [{"id": "alice", "name": "Alice", "roles": ["cashier"]}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(http.MethodPut, "/api/v1/roster", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	_, err := api.store.GetRoster(context.Background())
	assert.ErrorIs(t, err, db.ErrNotFound, "nothing is stored after rejected updates")
}

func TestPlannings_GenerateAndRead(t *testing.T) {
	api := newTestAPI(t, nil)
	api.seed()

	rec := api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"startDate": "2025-01-06", "horizonDays": 7}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated GeneratePlanningResponse
	resp := decodeResponse(t, rec, &generated)
	assert.True(t, resp.Success)
	require.NotNil(t, generated.Planning)
	assert.Equal(t, "2025-01-06", generated.Planning.StartDate)
	assert.Len(t, generated.Planning.Planning, 7)
	assert.NotNil(t, generated.ValidationErrors)

	rec = api.request(http.MethodGet, "/api/v1/plannings/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var latest db.PlanningRecord
	decodeResponse(t, rec, &latest)
	assert.Equal(t, generated.Planning.ID, latest.ID)

	rec = api.request(http.MethodGet, "/api/v1/plannings/latest/matrix", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matrix PlanningMatrixResponse
	decodeResponse(t, rec, &matrix)
	require.Len(t, matrix.Weeks, 1)
	assert.GreaterOrEqual(t, len(matrix.Weeks[0].Rows), 10)

	rec = api.request(http.MethodGet, "/api/v1/plannings/latest/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "planning_2025-01-06.json")
	var envelope services.ExportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, db.PlanningFormatVersion, envelope.Version)
	assert.Equal(t, latest.ID, envelope.ID)
}

func TestPlannings_GenerateEmptyBodyUsesDefaults(t *testing.T) {
	api := newTestAPI(t, &config.Config{Planning: config.PlanningConfig{HorizonDays: 2}})
	api.seed()

	rec := api.request(http.MethodPost, "/api/v1/plannings", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated GeneratePlanningResponse
	decodeResponse(t, rec, &generated)
	assert.Len(t, generated.Planning.Planning, 2)
}

func TestPlannings_GenerateErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"startDate": "2025-01-06"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code, "no roster stored yet")

	api.seed()

	rec = api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"startDate": "next week"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"horizonDays": -1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlannings_Clear(t *testing.T) {
	api := newTestAPI(t, nil)
	api.seed()

	rec := api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"startDate": "2025-01-06", "horizonDays": 1}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.request(http.MethodDelete, "/api/v1/plannings", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.request(http.MethodGet, "/api/v1/plannings/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.request(http.MethodGet, "/api/v1/plannings/latest/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.request(http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics services.Metrics
	decodeResponse(t, rec, &metrics)
	assert.Zero(t, metrics.Employees)
	assert.False(t, metrics.HasPlanning)

	api.seed()
	rec = api.request(http.MethodPost, "/api/v1/plannings", []byte(`{"startDate": "2025-01-06", "horizonDays": 7}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.request(http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResponse(t, rec, &metrics)
	assert.Equal(t, 10, metrics.Employees)
	assert.Equal(t, 4, metrics.Roles)
	assert.Equal(t, 2, metrics.Shifts)
	assert.True(t, metrics.HasPlanning)
	assert.Positive(t, metrics.Assignments)
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t, &config.Config{Server: config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/metrics", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.request(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
