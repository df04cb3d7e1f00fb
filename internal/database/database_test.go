package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"stats.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate",
		DSN("stats.db"))
	assert.Equal(t,
		"file:stats.db?cache=shared&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate",
		DSN("file:stats.db?cache=shared"))
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "pragmas.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()

	// holding several connections at once forces the pool to dial new ones
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		conns[i] = conn
	}

	for i, conn := range conns {
		for pragma, want := range map[string]string{
			"busy_timeout": "5000",
			"foreign_keys": "1",
			"synchronous":  "1",
			"journal_mode": "wal",
		} {
			var got string
			require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA "+pragma).Scan(&got))
			assert.Equal(t, want, got, "connection %d pragma %s", i, pragma)
		}
	}
}

func TestOpen_Migrates(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "migrate.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'hero_stats'`).Scan(&name))
	assert.Equal(t, "hero_stats", name)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "x.db"), zerolog.Nop())
	assert.Error(t, err)
}
