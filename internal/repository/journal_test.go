package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"duel-tracker/internal/config"
	"duel-tracker/internal/database"
	"duel-tracker/internal/db"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJournalTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := database.New(&config.Config{DBPath: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("Error closing database: %v", err)
		}
	})
	return sqlDB
}

func newJournalRepo(t *testing.T) *JournalRepository {
	sqlDB := setupJournalTestDB(t)
	return NewJournalRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
}

func entry(sessionID string, seq int, win bool, outcome string) domain.JournalEntry {
	return domain.JournalEntry{
		SessionID: sessionID,
		Sequence:  seq,
		Record:    domain.GameRecord{MyDeck: "Tearlaments", OpponentDeck: "Snake-Eye", IsFirst: seq%2 == 0, Result: win},
		Before:    domain.Position{Tier: 6, Points: 3},
		After:     domain.Position{Tier: 5},
		Outcome:   outcome,
		PlayedAt:  time.Date(2026, 10, 1, 12, seq, 0, 0, time.UTC),
	}
}

func TestJournalRepository_CreateSession(t *testing.T) {
	repo := newJournalRepo(t)
	ctx := context.Background()

	err := repo.CreateSession(ctx, domain.Session{ID: "s-1", StartedTier: 6, StartedPoints: 3})
	require.NoError(t, err)

	got, err := repo.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.StartedTier)
	assert.Equal(t, 3, got.StartedPoints)
	assert.False(t, got.Resumed)
	assert.False(t, got.CreatedAt.IsZero())

	assert.Error(t, repo.CreateSession(ctx, domain.Session{ID: "s-1"}), "duplicate session id")
}

func TestJournalRepository_AppendAssignsID(t *testing.T) {
	repo := newJournalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateSession(ctx, domain.Session{ID: "s-1", StartedTier: 6, StartedPoints: 3}))

	stored, err := repo.Append(ctx, entry("s-1", 1, true, "promoted"))
	require.NoError(t, err)
	assert.Len(t, stored.ID, 21)
	assert.False(t, stored.CreatedAt.IsZero())

	count, err := repo.CountBySession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJournalRepository_AppendRequiresSession(t *testing.T) {
	repo := newJournalRepo(t)

	_, err := repo.Append(context.Background(), entry("missing", 1, true, "none"))
	assert.Error(t, err)
}

func TestJournalRepository_ListBySession(t *testing.T) {
	repo := newJournalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateSession(ctx, domain.Session{ID: "s-1", StartedTier: 6, StartedPoints: 3}))
	require.NoError(t, repo.CreateSession(ctx, domain.Session{ID: "s-2", StartedTier: 10}))

	batch := []*domain.JournalEntry{}
	for i := 1; i <= 5; i++ {
		e := entry("s-1", i, i%2 == 1, "none")
		batch = append(batch, &e)
	}
	other := entry("s-2", 1, false, "none")
	batch = append(batch, &other)
	require.NoError(t, repo.AppendBatch(ctx, batch))

	got, err := repo.ListBySession(ctx, "s-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{got[0].Sequence, got[1].Sequence, got[2].Sequence})

	first := got[2]
	assert.Equal(t, "Snake-Eye", first.Record.OpponentDeck)
	assert.True(t, first.Record.Result)
	assert.Equal(t, domain.Position{Tier: 6, Points: 3}, first.Before)
	assert.Equal(t, domain.Position{Tier: 5}, first.After)
	assert.True(t, first.PlayedAt.Equal(time.Date(2026, 10, 1, 12, 3, 0, 0, time.UTC)))

	n, err := repo.CountBySession(ctx, "s-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournalRepository_OutcomeCounts(t *testing.T) {
	repo := newJournalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateSession(ctx, domain.Session{ID: "s-1", StartedTier: 6, StartedPoints: 3}))

	for i, outcome := range []string{"none", "promoted", "none", "demotion_blocked"} {
		_, err := repo.Append(ctx, entry("s-1", i+1, outcome == "promoted", outcome))
		require.NoError(t, err)
	}

	counts, err := repo.OutcomeCounts(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"none": 2, "promoted": 1, "demotion_blocked": 1}, counts)
}

func TestJournalRepository_AppendBatchEmpty(t *testing.T) {
	repo := newJournalRepo(t)
	assert.NoError(t, repo.AppendBatch(context.Background(), nil))
}
