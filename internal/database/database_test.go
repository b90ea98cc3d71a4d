package database

import (
	"path/filepath"
	"testing"

	"duel-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunsMigrations(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "journal.db")}

	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"sessions", "match_journal"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestNewIsIdempotent(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "journal.db")}

	first, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
