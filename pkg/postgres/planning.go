package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/turnify/pkg/db"
)

// InsertPlanning stores the planning document and its flattened assignments in one transaction
func (d *DB) InsertPlanning(ctx context.Context, record *db.PlanningRecord) error {
	document, err := json.Marshal(record.Planning)
	if err != nil {
		return fmt.Errorf("failed to encode planning: %w", err)
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO planning (id, start_date, horizon_days, format_version, generated_at, uncovered, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID, record.StartDate, record.HorizonDays, record.FormatVersion, record.GeneratedAt.UTC(), record.Uncovered, document)
	if err != nil {
		return fmt.Errorf("failed to insert planning: %w", err)
	}

	rows := record.AssignmentRows()
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"planning_assignment"},
		[]string{"planning_id", "shift_date", "employee_id", "employee_name", "shift_id", "role_id", "start_at", "end_at", "net_minutes", "warning"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			shiftDate, err := time.Parse("2006-01-02", row.Date)
			if err != nil {
				return nil, err
			}
			var employeeID *string
			if row.EmployeeID != "" {
				employeeID = &row.EmployeeID
			}
			return []any{row.PlanningID, shiftDate, employeeID, row.EmployeeName, row.ShiftID, row.RoleID, row.StartAt, row.EndAt, row.NetMinutes, row.Warning}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert planning assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit planning: %w", err)
	}
	return nil
}

// GetLatestPlanning retrieves the most recently generated planning
func (d *DB) GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error) {
	var record db.PlanningRecord
	var startDate time.Time
	var document []byte

	err := d.pool.QueryRow(ctx, `
		SELECT id, start_date, horizon_days, format_version, generated_at, uncovered, document
		FROM planning
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&record.ID, &startDate, &record.HorizonDays, &record.FormatVersion, &record.GeneratedAt, &record.Uncovered, &document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("planning: %w", db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest planning: %w", err)
	}

	record.StartDate = startDate.Format("2006-01-02")
	record.GeneratedAt = record.GeneratedAt.UTC()
	if err := json.Unmarshal(document, &record.Planning); err != nil {
		return nil, fmt.Errorf("failed to decode planning: %w", err)
	}
	return &record, nil
}

// ClearPlannings removes every stored planning; assignments cascade
func (d *DB) ClearPlannings(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM planning`); err != nil {
		return fmt.Errorf("failed to clear plannings: %w", err)
	}
	return nil
}
