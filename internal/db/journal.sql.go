package db

import (
	"context"
	"time"
)

const createSession = `
INSERT INTO sessions (id, started_tier, started_points, resumed, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateSessionParams struct {
	ID            string
	StartedTier   int64
	StartedPoints int64
	Resumed       bool
	CreatedAt     time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.ID,
		arg.StartedTier,
		arg.StartedPoints,
		arg.Resumed,
		arg.CreatedAt,
	)
	return err
}

const getSession = `
SELECT id, started_tier, started_points, resumed, created_at
FROM sessions
WHERE id = ?
`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSession, id)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.StartedTier,
		&i.StartedPoints,
		&i.Resumed,
		&i.CreatedAt,
	)
	return i, err
}

const insertJournalEntry = `
INSERT INTO match_journal (
    id, session_id, sequence, my_deck, opponent_deck, is_first, result,
    tier_before, points_before, losing_streak_before,
    tier_after, points_after, losing_streak_after,
    outcome, played_at, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertJournalEntryParams struct {
	ID                 string
	SessionID          string
	Sequence           int64
	MyDeck             string
	OpponentDeck       string
	IsFirst            bool
	Result             bool
	TierBefore         int64
	PointsBefore       int64
	LosingStreakBefore int64
	TierAfter          int64
	PointsAfter        int64
	LosingStreakAfter  int64
	Outcome            string
	PlayedAt           time.Time
	CreatedAt          time.Time
}

func (q *Queries) InsertJournalEntry(ctx context.Context, arg InsertJournalEntryParams) error {
	_, err := q.db.ExecContext(ctx, insertJournalEntry,
		arg.ID,
		arg.SessionID,
		arg.Sequence,
		arg.MyDeck,
		arg.OpponentDeck,
		arg.IsFirst,
		arg.Result,
		arg.TierBefore,
		arg.PointsBefore,
		arg.LosingStreakBefore,
		arg.TierAfter,
		arg.PointsAfter,
		arg.LosingStreakAfter,
		arg.Outcome,
		arg.PlayedAt,
		arg.CreatedAt,
	)
	return err
}

const listJournalBySession = `
SELECT id, session_id, sequence, my_deck, opponent_deck, is_first, result,
       tier_before, points_before, losing_streak_before,
       tier_after, points_after, losing_streak_after,
       outcome, played_at, created_at
FROM match_journal
WHERE session_id = ?
ORDER BY sequence DESC
LIMIT ?
`

type ListJournalBySessionParams struct {
	SessionID string
	Limit     int64
}

func (q *Queries) ListJournalBySession(ctx context.Context, arg ListJournalBySessionParams) ([]MatchJournal, error) {
	rows, err := q.db.QueryContext(ctx, listJournalBySession, arg.SessionID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchJournal
	for rows.Next() {
		var i MatchJournal
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.Sequence,
			&i.MyDeck,
			&i.OpponentDeck,
			&i.IsFirst,
			&i.Result,
			&i.TierBefore,
			&i.PointsBefore,
			&i.LosingStreakBefore,
			&i.TierAfter,
			&i.PointsAfter,
			&i.LosingStreakAfter,
			&i.Outcome,
			&i.PlayedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countJournalBySession = `
SELECT COUNT(*) FROM match_journal WHERE session_id = ?
`

func (q *Queries) CountJournalBySession(ctx context.Context, sessionID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countJournalBySession, sessionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countOutcomesBySession = `
SELECT outcome, COUNT(*) FROM match_journal
WHERE session_id = ?
GROUP BY outcome
`

type CountOutcomesBySessionRow struct {
	Outcome string
	Count   int64
}

func (q *Queries) CountOutcomesBySession(ctx context.Context, sessionID string) ([]CountOutcomesBySessionRow, error) {
	rows, err := q.db.QueryContext(ctx, countOutcomesBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountOutcomesBySessionRow
	for rows.Next() {
		var i CountOutcomesBySessionRow
		if err := rows.Scan(&i.Outcome, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
