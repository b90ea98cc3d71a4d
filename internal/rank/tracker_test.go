package rank

import (
	"testing"

	"duel-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsAndPromotes(t *testing.T) {
	state := domain.NewRankState(6, 3)
	tr := NewTracker(state)

	got := tr.RecordWin("Tearlaments", "Snake-Eye", true)

	assert.Equal(t, OutcomePromoted, got.Outcome)
	assert.Equal(t, 5, state.Tier)
	assert.Equal(t, 0, state.Points)
	require.Len(t, state.Records, 1)
	assert.Equal(t, domain.GameRecord{MyDeck: "Tearlaments", OpponentDeck: "Snake-Eye", IsFirst: true, Result: true}, state.Records[0])
}

func TestTrackerLossAppendsAndDemotes(t *testing.T) {
	state := domain.NewRankState(9, 0)
	tr := NewTracker(state)

	tr.RecordLoss("Labrynth", "Kashtira", false)
	tr.RecordLoss("Labrynth", "Kashtira", true)
	got := tr.RecordLoss("Labrynth", "Runick", false)

	assert.Equal(t, OutcomeDemoted, got.Outcome)
	assert.Equal(t, domain.Position{Tier: 10}, state.Position)
	require.Len(t, state.Records, 3)
	for _, r := range state.Records {
		assert.False(t, r.Result)
	}
	assert.Equal(t, "Runick", state.Records[2].OpponentDeck)
}

func TestTrackerManualAdjustments(t *testing.T) {
	state := domain.NewRankState(2, 3)
	tr := NewTracker(state)

	assert.Equal(t, OutcomePromoted, tr.Promote().Outcome)
	assert.Equal(t, OutcomePromotionBlocked, tr.Promote().Outcome)
	assert.Equal(t, 1, tr.State().Tier)

	assert.Equal(t, OutcomeDemoted, tr.Demote().Outcome)
	assert.Equal(t, 2, tr.State().Tier)
	assert.Empty(t, state.Records)
}

func TestNewTrackerInitialisesRecords(t *testing.T) {
	state := &domain.RankState{Position: domain.Position{Tier: 4}}
	NewTracker(state)
	assert.NotNil(t, state.Records)
}
