package db

import (
	"io/fs"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbeddedInPairs(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	sort.Strings(names)

	assert.Equal(t, []string{
		"migrations/000001_create_bundle_tables.down.sql",
		"migrations/000001_create_bundle_tables.up.sql",
		"migrations/000002_create_session_table.down.sql",
		"migrations/000002_create_session_table.up.sql",
		"migrations/000003_create_bundle_reconciliation.down.sql",
		"migrations/000003_create_bundle_reconciliation.up.sql",
	}, names)
}

func TestBundleMigrationUsesQuotedColumns(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_bundle_tables.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), `"productId"`)
	assert.Contains(t, string(up), `ON DELETE CASCADE`)
}
