package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"duel-tracker/internal/config"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

const snapshotFileMode = 0o644

// SnapshotRepository keeps the whole rank state in one JSON file:
// {"tier", "points", "losing_streak", "records": [...]}.
type SnapshotRepository struct {
	path   string
	logger zerolog.Logger
}

func NewSnapshotRepository(cfg *config.Config, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{path: cfg.SnapshotPath, logger: logger}
}

func (r *SnapshotRepository) Path() string {
	return r.path
}

func (r *SnapshotRepository) Load(ctx context.Context) (*domain.RankState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug().Str("path", r.path).Msg("snapshot file not found")
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var state domain.RankState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	if state.Records == nil {
		state.Records = []domain.GameRecord{}
	}
	if err := domain.ValidateSnapshot(&state); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("path", r.path).
		Int("tier", state.Tier).
		Int("points", state.Points).
		Int("records", len(state.Records)).
		Msg("snapshot loaded")

	return &state, nil
}

// Save replaces the file wholesale. The data is written to a sibling temp
// file first so a crash never leaves a half written snapshot behind.
func (r *SnapshotRepository) Save(ctx context.Context, state *domain.RankState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := state.Clone()
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	// CreateTemp opens the file 0600; the rename would carry that over.
	if err := tmp.Chmod(snapshotFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	r.logger.Info().
		Str("path", r.path).
		Int("tier", out.Tier).
		Int("records", len(out.Records)).
		Msg("snapshot saved")

	return nil
}
