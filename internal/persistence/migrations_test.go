package persistence

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_ticket_history.sql", "0003_insert_order.sql"}, names)
}

func TestInsertOrderMigration_AddsSeqToOrderedTables(t *testing.T) {
	content, err := fs.ReadFile(migrationFiles, migrationsDir+"/0003_insert_order.sql")
	require.NoError(t, err)

	for _, table := range []string{"tickets", "ticket_comments", "ticket_history"} {
		assert.Contains(t, string(content), "ALTER TABLE "+table+" ADD COLUMN IF NOT EXISTS seq BIGINT GENERATED ALWAYS AS IDENTITY")
	}
}
