package integration

import (
	"testing"
	"time"

	"github.com/colony/backend/internal/infrastructure/migration"
	"github.com/colony/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backendCount(tdb *TestDB) (int64, error) {
	var n int64
	err := tdb.DB.Raw(
		`SELECT count(*) FROM pg_stat_activity WHERE datname = current_database() AND pid <> pg_backend_pid()`,
	).Scan(&n).Error
	return n, err
}

func TestApplyMigrationsReleasesItsConnection(t *testing.T) {
	tdb := NewTestDB(t)
	tdb.SqlDB.SetMaxOpenConns(1)
	before, err := backendCount(tdb)
	require.NoError(t, err)

	require.NoError(t, migration.Apply(tdb.DSN, migrations.FS, zap.NewNop()))
	require.NoError(t, migration.Apply(tdb.DSN, migrations.FS, zap.NewNop()), "re-applying is a no-op")

	assert.Eventually(t, func() bool {
		n, err := backendCount(tdb)
		return err == nil && n <= before
	}, 5*time.Second, 100*time.Millisecond)

	require.NoError(t, tdb.SqlDB.Ping(), "the caller's pool stays open")
	var houses int64
	require.NoError(t, tdb.DB.Table("houses").Count(&houses).Error)
}
