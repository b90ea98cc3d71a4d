package rank

import (
	"testing"

	"duel-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(tier, points, streak int) domain.Position {
	return domain.Position{Tier: tier, Points: points, LosingStreak: streak}
}

func TestWinPromotionThresholds(t *testing.T) {
	for tier := 1; tier <= 10; tier++ {
		threshold := domain.PromotionThreshold(tier)

		below := Win(pos(tier, threshold-2, 0))
		assert.Equal(t, OutcomeNone, below.Outcome, "tier %d should not promote at %d points", tier, threshold-1)
		assert.Equal(t, threshold-1, below.After.Points)

		at := Win(pos(tier, threshold-1, 0))
		if tier == 1 {
			assert.Equal(t, OutcomePromotionBlocked, at.Outcome)
			assert.Equal(t, 1, at.After.Tier)
			continue
		}
		assert.Equal(t, OutcomePromoted, at.Outcome, "tier %d", tier)
		assert.Equal(t, tier-1, at.After.Tier)
		assert.Equal(t, 0, at.After.Points)
	}
}

func TestWinResetsLosingStreak(t *testing.T) {
	for streak := 0; streak < 6; streak++ {
		tr := Win(pos(8, 0, streak))
		assert.Equal(t, 0, tr.After.LosingStreak)
		assert.Equal(t, 1, tr.After.Points)
	}
}

func TestWinFromDiamondOneReachesMaster(t *testing.T) {
	tr := Win(pos(6, 3, 0))

	assert.Equal(t, OutcomePromoted, tr.Outcome)
	assert.Equal(t, pos(5, 0, 0), tr.After)
	assert.Equal(t, pos(6, 3, 0), tr.Before)
	assert.True(t, tr.Changed())
}

func TestWinAtTopKeepsCounting(t *testing.T) {
	tr := Win(pos(1, 4, 0))
	assert.Equal(t, OutcomePromotionBlocked, tr.Outcome)
	assert.Equal(t, pos(1, 5, 0), tr.After)

	tr = Win(tr.After)
	assert.Equal(t, OutcomePromotionBlocked, tr.Outcome)
	assert.Equal(t, 6, tr.After.Points)
}

func TestLossSpendsPointsFirst(t *testing.T) {
	tr := Loss(pos(7, 2, 0))

	assert.Equal(t, OutcomeNone, tr.Outcome)
	assert.Equal(t, pos(7, 1, 0), tr.After)
}

func TestLossAtZeroPointsBuildsStreak(t *testing.T) {
	p := pos(7, 0, 0)

	p = Loss(p).After
	assert.Equal(t, pos(7, 0, 1), p)
	p = Loss(p).After
	assert.Equal(t, pos(7, 0, 2), p)

	tr := Loss(p)
	assert.Equal(t, OutcomeDemoted, tr.Outcome)
	assert.Equal(t, pos(8, 0, 0), tr.After)
}

func TestLossNeverGoesNegative(t *testing.T) {
	p := pos(3, 0, 0)
	for i := 0; i < 10; i++ {
		p = Loss(p).After
		require.GreaterOrEqual(t, p.Points, 0)
	}
}

func TestThreeLossesAtMasterFiveAreBlocked(t *testing.T) {
	p := pos(5, 0, 0)
	var tr Transition
	for i := 0; i < 3; i++ {
		tr = Loss(p)
		p = tr.After
	}

	assert.Equal(t, OutcomeDemotionBlocked, tr.Outcome)
	assert.Equal(t, 5, p.Tier)
	assert.Equal(t, 3, p.LosingStreak)
	assert.False(t, tr.Changed())
}

func TestTerminalTiers(t *testing.T) {
	tests := []struct {
		name string
		tr   Transition
		want Outcome
	}{
		{name: "promote from 1", tr: Promote(pos(1, 5, 0)), want: OutcomePromotionBlocked},
		{name: "demote from 5", tr: Demote(pos(5, 0, 3)), want: OutcomeDemotionBlocked},
		{name: "demote from 10", tr: Demote(pos(10, 0, 3)), want: OutcomeDemotionBlocked},
		{name: "demote from 4", tr: Demote(pos(4, 0, 3)), want: OutcomeDemoted},
		{name: "demote from 6", tr: Demote(pos(6, 0, 3)), want: OutcomeDemoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tr.Outcome)
			if tt.want != OutcomeDemoted {
				assert.Equal(t, tt.tr.Before, tt.tr.After)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "none", OutcomeNone.String())
	assert.Equal(t, "promoted", OutcomePromoted.String())
	assert.Equal(t, "demotion_blocked", OutcomeDemotionBlocked.String())
}
