package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/turnify/pkg/core/model"
	"github.com/jakechorley/turnify/pkg/db"
)

// GetRoster retrieves the stored roster document
func (d *DB) GetRoster(ctx context.Context) (*model.Roster, error) {
	var document []byte
	err := d.pool.QueryRow(ctx, `SELECT document FROM roster WHERE id = 1`).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("roster: %w", db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}

	var roster model.Roster
	if err := json.Unmarshal(document, &roster); err != nil {
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

	_, err = d.pool.Exec(ctx, `
		INSERT INTO roster (id, document, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`, document)
	if err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}
