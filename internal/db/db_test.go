package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brandcraft.db")

	database, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	for _, table := range []string{"reports", "runs", "events"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	v, err := Version(database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brandcraft.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
