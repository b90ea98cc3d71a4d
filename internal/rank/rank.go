// Package rank holds the ladder rules: promotion at the bracket threshold,
// demotion after a losing streak at zero points, and the sticky floor of the
// Master bracket.
package rank

import (
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePromoted
	OutcomeDemoted
	OutcomePromotionBlocked // already at the top tier
	OutcomeDemotionBlocked  // tier 5 or tier 10
)

func (o Outcome) String() string {
	switch o {
	case OutcomePromoted:
		return "promoted"
	case OutcomeDemoted:
		return "demoted"
	case OutcomePromotionBlocked:
		return "promotion_blocked"
	case OutcomeDemotionBlocked:
		return "demotion_blocked"
	default:
		return "none"
	}
}

type Transition struct {
	Before  domain.Position
	After   domain.Position
	Outcome Outcome
}

func (t Transition) Changed() bool {
	return t.Before.Tier != t.After.Tier
}

// Win adds a point, clears the losing streak and promotes once the current
// tier's threshold is reached.
func Win(p domain.Position) Transition {
	next := p
	next.Points++
	next.LosingStreak = 0

	if next.Points >= domain.PromotionThreshold(next.Tier) {
		t := Promote(next)
		t.Before = p
		return t
	}
	return Transition{Before: p, After: next, Outcome: OutcomeNone}
}

// Loss spends a point if there is one; at zero points it grows the losing
// streak instead and tries to demote when the streak reaches the limit.
func Loss(p domain.Position) Transition {
	next := p
	if next.Points > 0 {
		next.Points--
		return Transition{Before: p, After: next, Outcome: OutcomeNone}
	}

	next.LosingStreak++
	if next.LosingStreak >= constants.DemotionLosingStreak {
		t := Demote(next)
		t.Before = p
		return t
	}
	return Transition{Before: p, After: next, Outcome: OutcomeNone}
}

// Promote moves one tier up with points reset; tier 1 is blocked.
func Promote(p domain.Position) Transition {
	if p.Tier <= constants.TopTier {
		return Transition{Before: p, After: p, Outcome: OutcomePromotionBlocked}
	}
	next := p
	next.Tier--
	next.Points = 0
	return Transition{Before: p, After: next, Outcome: OutcomePromoted}
}

// Demote moves one tier down and clears points and streak. Tier 10 and the
// Master floor (tier 5) are blocked.
func Demote(p domain.Position) Transition {
	if p.Tier >= constants.BottomTier || p.Tier == constants.MasterFloorTier {
		return Transition{Before: p, After: p, Outcome: OutcomeDemotionBlocked}
	}
	next := p
	next.Tier++
	next.Points = 0
	next.LosingStreak = 0
	return Transition{Before: p, After: next, Outcome: OutcomeDemoted}
}
