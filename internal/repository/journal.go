package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duel-tracker/internal/db"
	"duel-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type JournalRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewJournalRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *JournalRepository {
	return &JournalRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *JournalRepository) CreateSession(ctx context.Context, session domain.Session) error {
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.queries.CreateSession(ctx, db.CreateSessionParams{
		ID:            session.ID,
		StartedTier:   int64(session.StartedTier),
		StartedPoints: int64(session.StartedPoints),
		Resumed:       session.Resumed,
		CreatedAt:     createdAt,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to create session")
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}

	r.logger.Debug().Str("session_id", session.ID).Int("tier", session.StartedTier).Msg("session created")
	return nil
}

func (r *JournalRepository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	s, err := r.queries.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:            s.ID,
		StartedTier:   int(s.StartedTier),
		StartedPoints: int(s.StartedPoints),
		Resumed:       s.Resumed,
		CreatedAt:     s.CreatedAt,
	}, nil
}

// Append stores one entry and returns it with its generated id.
func (r *JournalRepository) Append(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	if err := r.AppendBatch(ctx, []*domain.JournalEntry{&entry}); err != nil {
		return entry, err
	}
	return entry, nil
}

// AppendBatch writes all entries in one transaction, assigning ids and
// timestamps where they are missing.
func (r *JournalRepository) AppendBatch(ctx context.Context, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now()

	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		if entry.PlayedAt.IsZero() {
			entry.PlayedAt = now
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}

		err := qtx.InsertJournalEntry(ctx, db.InsertJournalEntryParams{
			ID:                 entry.ID,
			SessionID:          entry.SessionID,
			Sequence:           int64(entry.Sequence),
			MyDeck:             entry.Record.MyDeck,
			OpponentDeck:       entry.Record.OpponentDeck,
			IsFirst:            entry.Record.IsFirst,
			Result:             entry.Record.Result,
			TierBefore:         int64(entry.Before.Tier),
			PointsBefore:       int64(entry.Before.Points),
			LosingStreakBefore: int64(entry.Before.LosingStreak),
			TierAfter:          int64(entry.After.Tier),
			PointsAfter:        int64(entry.After.Points),
			LosingStreakAfter:  int64(entry.After.LosingStreak),
			Outcome:            entry.Outcome,
			PlayedAt:           entry.PlayedAt,
			CreatedAt:          entry.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert journal entry %s/%d: %w", entry.SessionID, entry.Sequence, err)
		}
	}

	return tx.Commit()
}

// ListBySession returns the newest entries first.
func (r *JournalRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.JournalEntry, error) {
	rows, err := r.queries.ListJournalBySession(ctx, db.ListJournalBySessionParams{
		SessionID: sessionID,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.JournalEntry, len(rows))
	for i, row := range rows {
		result[i] = domain.JournalEntry{
			ID:        row.ID,
			SessionID: row.SessionID,
			Sequence:  int(row.Sequence),
			Record: domain.GameRecord{
				MyDeck:       row.MyDeck,
				OpponentDeck: row.OpponentDeck,
				IsFirst:      row.IsFirst,
				Result:       row.Result,
			},
			Before: domain.Position{
				Tier:         int(row.TierBefore),
				Points:       int(row.PointsBefore),
				LosingStreak: int(row.LosingStreakBefore),
			},
			After: domain.Position{
				Tier:         int(row.TierAfter),
				Points:       int(row.PointsAfter),
				LosingStreak: int(row.LosingStreakAfter),
			},
			Outcome:   row.Outcome,
			PlayedAt:  row.PlayedAt,
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}

func (r *JournalRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	count, err := r.queries.CountJournalBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// OutcomeCounts tallies how often each rank outcome happened in a session.
func (r *JournalRepository) OutcomeCounts(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := r.queries.CountOutcomesBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = int(row.Count)
	}
	return counts, nil
}
