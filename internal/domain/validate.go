package domain

import (
	"errors"
	"fmt"
	"strings"

	"duel-tracker/internal/constants"
)

var (
	ErrInvalidTier      = errors.New("tier out of range")
	ErrInvalidPoints    = errors.New("points out of range")
	ErrMissingDeck      = errors.New("deck name is required")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrNoSession        = errors.New("no active session")
)

// ValidateStart checks user supplied starting values. Diamond tiers accept
// 0-3 points and Master tiers 0-4, one below their promotion threshold.
func ValidateStart(tier, points int) error {
	if tier < constants.TopTier || tier > constants.BottomTier {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidTier, tier, constants.TopTier, constants.BottomTier)
	}
	maxPoints := PromotionThreshold(tier) - 1
	if points < 0 || points > maxPoints {
		return fmt.Errorf("%w: %d not in [0,%d] for tier %d", ErrInvalidPoints, points, maxPoints, tier)
	}
	return nil
}

func (in MatchInput) Validate() error {
	if strings.TrimSpace(in.MyDeck) == "" || strings.TrimSpace(in.OpponentDeck) == "" {
		return ErrMissingDeck
	}
	return nil
}

// ValidateSnapshot rejects states that could never be produced by the rank
// rules. Points above the threshold are allowed: tier 1 keeps counting.
func ValidateSnapshot(s *RankState) error {
	if s.Tier < constants.TopTier || s.Tier > constants.BottomTier {
		return fmt.Errorf("%w: tier %d", ErrInvalidSnapshot, s.Tier)
	}
	if s.Points < 0 || s.LosingStreak < 0 {
		return fmt.Errorf("%w: negative counters (points=%d, losing_streak=%d)", ErrInvalidSnapshot, s.Points, s.LosingStreak)
	}
	return nil
}

var firstMoveTokens = map[string]bool{
	"예":     true,
	"네":     true,
	"선공":    true,
	"y":     true,
	"yes":   true,
	"first": true,
	"1":     true,
	"true":  true,
}

// ParseFirstMove maps the yes/no answer to "did I go first". Anything that
// isn't a recognised yes counts as going second.
func ParseFirstMove(token string) bool {
	return firstMoveTokens[strings.ToLower(strings.TrimSpace(token))]
}
