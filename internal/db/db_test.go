package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"workforce/internal/model"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	conn, err := Open("sqlite", path, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(conn) })

	require.NoError(t, Migrate(conn))
	for _, m := range Models() {
		assert.True(t, conn.Migrator().HasTable(m))
	}
	assert.True(t, conn.Migrator().HasIndex(&model.Department{}, "idx_department_company_name"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "", zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestReset_DropsTables(t *testing.T) {
	conn, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	Reset(conn, zaptest.NewLogger(t))

	assert.False(t, conn.Migrator().HasTable(&model.Employee{}))
	assert.False(t, conn.Migrator().HasTable(&model.Company{}))
}
