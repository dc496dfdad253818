package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turnify/pkg/db"
)

var _ db.Database = (*DB)(nil)

func TestPendingMigrations(t *testing.T) {
	pending, err := pendingMigrations(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_roster.sql", "002_create_planning.sql"}, pending)

	pending, err = pendingMigrations([]string{"001_create_roster.sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_create_planning.sql"}, pending)

	pending, err = pendingMigrations([]string{"001_create_roster.sql", "002_create_planning.sql"})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
