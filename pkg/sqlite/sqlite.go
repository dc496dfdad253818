package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS roster (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS planning (
	id TEXT PRIMARY KEY,
	start_date TEXT NOT NULL,
	horizon_days INTEGER NOT NULL,
	format_version INTEGER NOT NULL,
	generated_at TEXT NOT NULL,
	uncovered INTEGER NOT NULL DEFAULT 0,
	document TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS planning_assignment (
	planning_id TEXT NOT NULL REFERENCES planning (id) ON DELETE CASCADE,
	shift_date TEXT NOT NULL,
	employee_id TEXT,
	employee_name TEXT NOT NULL,
	shift_id TEXT NOT NULL,
	role_id TEXT NOT NULL,
	start_at TEXT NOT NULL,
	end_at TEXT NOT NULL,
	net_minutes INTEGER NOT NULL,
	warning INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS planning_generated_at_idx ON planning (generated_at);
CREATE INDEX IF NOT EXISTS planning_assignment_planning_idx ON planning_assignment (planning_id);
`

// timestampLayout keeps stored timestamps fixed-width so they sort as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// DB provides roster and planning storage in a single SQLite file
type DB struct {
	db *sql.DB
}

var _ db.Database = (*DB)(nil)

// New opens (or creates) the database at path and initializes the schema
func New(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db: conn}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// GetRoster retrieves the stored roster document
func (d *DB) GetRoster(ctx context.Context) (*model.Roster, error) {
	var document string
	err := d.db.QueryRowContext(ctx, `SELECT document FROM roster WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roster: %w", db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}

	var roster model.Roster
	if err := json.Unmarshal([]byte(document), &roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return &roster, nil
}

// SaveRoster replaces the stored roster document
func (d *DB) SaveRoster(ctx context.Context, roster *model.Roster) error {
	document, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO roster (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, string(document), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

// InsertPlanning stores the planning document and its flattened assignments in one transaction
func (d *DB) InsertPlanning(ctx context.Context, record *db.PlanningRecord) error {
	document, err := json.Marshal(record.Planning)
	if err != nil {
		return fmt.Errorf("failed to encode planning: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO planning (id, start_date, horizon_days, format_version, generated_at, uncovered, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.StartDate, record.HorizonDays, record.FormatVersion,
		record.GeneratedAt.UTC().Format(timestampLayout), record.Uncovered, string(document))
	if err != nil {
		return fmt.Errorf("failed to insert planning: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO planning_assignment
			(planning_id, shift_date, employee_id, employee_name, shift_id, role_id, start_at, end_at, net_minutes, warning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range record.AssignmentRows() {
		employeeID := sql.NullString{String: row.EmployeeID, Valid: row.EmployeeID != ""}
		_, err := stmt.ExecContext(ctx, row.PlanningID, row.Date, employeeID, row.EmployeeName, row.ShiftID, row.RoleID,
			row.StartAt.UTC().Format(time.RFC3339), row.EndAt.UTC().Format(time.RFC3339), row.NetMinutes, row.Warning)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit planning: %w", err)
	}
	return nil
}

// GetLatestPlanning retrieves the most recently generated planning
func (d *DB) GetLatestPlanning(ctx context.Context) (*db.PlanningRecord, error) {
	var record db.PlanningRecord
	var generatedAt, document string

	err := d.db.QueryRowContext(ctx, `
		SELECT id, start_date, horizon_days, format_version, generated_at, uncovered, document
		FROM planning
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&record.ID, &record.StartDate, &record.HorizonDays, &record.FormatVersion, &generatedAt, &record.Uncovered, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("planning: %w", db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest planning: %w", err)
	}

	record.GeneratedAt, err = time.Parse(timestampLayout, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(document), &record.Planning); err != nil {
		return nil, fmt.Errorf("failed to decode planning: %w", err)
	}
	return &record, nil
}

// ClearPlannings removes every stored planning; assignments cascade
func (d *DB) ClearPlannings(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM planning`); err != nil {
		return fmt.Errorf("failed to clear plannings: %w", err)
	}
	return nil
}

// AssignmentCount returns the number of stored assignment rows for a planning
func (d *DB) AssignmentCount(ctx context.Context, planningID string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planning_assignment WHERE planning_id = ?`, planningID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}
