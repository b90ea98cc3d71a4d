package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"duel-tracker/internal/config"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"
	"duel-tracker/internal/rank"
	"duel-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TrackerService owns the active session. It is driven by a single caller
// and does no locking of its own.
type TrackerService struct {
	snapshots *repository.SnapshotRepository
	journal   *repository.JournalRepository // nil when the journal is disabled
	logger    zerolog.Logger

	tracker *rank.Tracker
	session *domain.Session
}

func NewTrackerService(cfg *config.Config, snapshots *repository.SnapshotRepository, journal *repository.JournalRepository, logger zerolog.Logger) *TrackerService {
	s := &TrackerService{snapshots: snapshots, logger: logger}
	if cfg.JournalEnabled && journal != nil {
		s.journal = journal
	}
	return s
}

func (s *TrackerService) Active() bool {
	return s.tracker != nil
}

// Start validates the starting position and replaces any active session.
func (s *TrackerService) Start(ctx context.Context, tier, points int) (domain.Position, error) {
	if err := domain.ValidateStart(tier, points); err != nil {
		s.logger.Warn().Err(err).Int("tier", tier).Int("points", points).Msg("rejected session start")
		return domain.Position{}, err
	}

	s.tracker = rank.NewTracker(domain.NewRankState(tier, points))
	s.openSession(ctx, false)

	s.logger.Info().Str("session_id", s.session.ID).Int("tier", tier).Int("points", points).Msg("session started")
	return s.tracker.State().Position, nil
}

// Resume restores the saved snapshot. On failure the current session, if
// any, is left untouched.
func (s *TrackerService) Resume(ctx context.Context) (domain.RankState, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SnapshotTimeout)
	defer cancel()

	state, err := s.snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			s.logger.Info().Str("path", s.snapshots.Path()).Msg("no snapshot to resume")
		} else {
			s.logger.Error().Err(err).Str("path", s.snapshots.Path()).Msg("failed to resume snapshot")
		}
		return domain.RankState{}, err
	}

	s.tracker = rank.NewTracker(state)
	s.openSession(ctx, true)

	s.logger.Info().Str("session_id", s.session.ID).Int("tier", state.Tier).Int("games", len(state.Records)).Msg("session resumed")
	return state.Clone(), nil
}

func (s *TrackerService) Save(ctx context.Context) error {
	if !s.Active() {
		return domain.ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, constants.SnapshotTimeout)
	defer cancel()

	if err := s.snapshots.Save(ctx, s.tracker.State()); err != nil {
		s.logger.Error().Err(err).Str("path", s.snapshots.Path()).Msg("failed to save snapshot")
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *TrackerService) RecordWin(ctx context.Context, in domain.MatchInput) (rank.Transition, error) {
	return s.record(ctx, in, true)
}

func (s *TrackerService) RecordLoss(ctx context.Context, in domain.MatchInput) (rank.Transition, error) {
	return s.record(ctx, in, false)
}

func (s *TrackerService) record(ctx context.Context, in domain.MatchInput, won bool) (rank.Transition, error) {
	if !s.Active() {
		return rank.Transition{}, domain.ErrNoSession
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return rank.Transition{}, err
	}

	var tr rank.Transition
	if won {
		tr = s.tracker.RecordWin(in.MyDeck, in.OpponentDeck, in.IsFirst)
	} else {
		tr = s.tracker.RecordLoss(in.MyDeck, in.OpponentDeck, in.IsFirst)
	}

	records := s.tracker.State().Records
	s.logger.Info().
		Str("my_deck", in.MyDeck).
		Str("opponent_deck", in.OpponentDeck).
		Bool("is_first", in.IsFirst).
		Bool("win", won).
		Int("tier", tr.After.Tier).
		Int("points", tr.After.Points).
		Str("outcome", tr.Outcome.String()).
		Msg("match recorded")

	if tr.Changed() {
		s.logger.Info().Int("from", tr.Before.Tier).Int("to", tr.After.Tier).Str("outcome", tr.Outcome.String()).Msg("tier changed")
	}

	s.writeJournal(ctx, domain.JournalEntry{
		Sequence: len(records),
		Record:   records[len(records)-1],
		Before:   tr.Before,
		After:    tr.After,
		Outcome:  tr.Outcome.String(),
	})
	return tr, nil
}

func (s *TrackerService) Promote(ctx context.Context) (rank.Transition, error) {
	if !s.Active() {
		return rank.Transition{}, domain.ErrNoSession
	}
	tr := s.tracker.Promote()
	s.logger.Info().Int("tier", tr.After.Tier).Str("outcome", tr.Outcome.String()).Msg("manual promotion")
	return tr, nil
}

func (s *TrackerService) Demote(ctx context.Context) (rank.Transition, error) {
	if !s.Active() {
		return rank.Transition{}, domain.ErrNoSession
	}
	tr := s.tracker.Demote()
	s.logger.Info().Int("tier", tr.After.Tier).Str("outcome", tr.Outcome.String()).Msg("manual demotion")
	return tr, nil
}

// State returns a copy of the live state.
func (s *TrackerService) State() (domain.RankState, error) {
	if !s.Active() {
		return domain.RankState{}, domain.ErrNoSession
	}
	return s.tracker.State().Clone(), nil
}

func (s *TrackerService) Records() ([]domain.GameRecord, error) {
	state, err := s.State()
	if err != nil {
		return nil, err
	}
	return state.Records, nil
}

// History summarises the active session from the journal: how it started,
// how many games were recorded and which rank outcomes they caused, plus the
// newest entries first. With the journal off only the session is filled in.
func (s *TrackerService) History(ctx context.Context, limit int) (domain.SessionHistory, error) {
	if !s.Active() {
		return domain.SessionHistory{}, domain.ErrNoSession
	}

	history := domain.SessionHistory{
		Session:  *s.session,
		Outcomes: map[string]int{},
		Entries:  []domain.JournalEntry{},
	}
	if s.journal == nil {
		return history, nil
	}

	if limit <= 0 {
		limit = constants.HistoryDefaultLimit
	}
	limit = min(limit, constants.HistoryMaxLimit)

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	sessionID := s.session.ID
	if stored, err := s.journal.GetSession(ctx, sessionID); err == nil {
		history.Session = *stored
	} else {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("session not in journal, using live session")
	}

	games, err := s.journal.CountBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to count journal")
		return domain.SessionHistory{}, fmt.Errorf("failed to count journal: %w", err)
	}
	history.Games = games

	outcomes, err := s.journal.OutcomeCounts(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to tally outcomes")
		return domain.SessionHistory{}, fmt.Errorf("failed to tally outcomes: %w", err)
	}
	history.Outcomes = outcomes

	entries, err := s.journal.ListBySession(ctx, sessionID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to list journal")
		return domain.SessionHistory{}, fmt.Errorf("failed to list journal: %w", err)
	}
	history.Entries = entries
	return history, nil
}

func (s *TrackerService) openSession(ctx context.Context, resumed bool) {
	pos := s.tracker.State().Position
	s.session = &domain.Session{
		ID:            uuid.NewString(),
		StartedTier:   pos.Tier,
		StartedPoints: pos.Points,
		Resumed:       resumed,
		CreatedAt:     time.Now(),
	}

	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.journal.CreateSession(ctx, *s.session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", s.session.ID).Msg("journal unavailable for this session")
	}
}

// writeJournal never fails the match; the snapshot is the source of truth.
func (s *TrackerService) writeJournal(ctx context.Context, entry domain.JournalEntry) {
	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	entry.SessionID = s.session.ID
	entry.PlayedAt = time.Now()
	if _, err := s.journal.Append(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("session_id", s.session.ID).Int("sequence", entry.Sequence).Msg("failed to write journal entry")
	}
}
