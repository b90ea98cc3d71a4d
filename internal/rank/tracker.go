package rank

import "duel-tracker/internal/domain"

// Tracker applies the rules to a live RankState and keeps its record list in
// step. It is not safe for concurrent use; a session has a single owner.
type Tracker struct {
	state *domain.RankState
}

func NewTracker(state *domain.RankState) *Tracker {
	if state.Records == nil {
		state.Records = []domain.GameRecord{}
	}
	return &Tracker{state: state}
}

func (t *Tracker) State() *domain.RankState {
	return t.state
}

func (t *Tracker) RecordWin(myDeck, opponentDeck string, isFirst bool) Transition {
	t.state.Records = append(t.state.Records, domain.GameRecord{
		MyDeck:       myDeck,
		OpponentDeck: opponentDeck,
		IsFirst:      isFirst,
		Result:       true,
	})
	return t.apply(Win)
}

func (t *Tracker) RecordLoss(myDeck, opponentDeck string, isFirst bool) Transition {
	tr := t.apply(Loss)
	t.state.Records = append(t.state.Records, domain.GameRecord{
		MyDeck:       myDeck,
		OpponentDeck: opponentDeck,
		IsFirst:      isFirst,
		Result:       false,
	})
	return tr
}

func (t *Tracker) Promote() Transition {
	return t.apply(Promote)
}

func (t *Tracker) Demote() Transition {
	return t.apply(Demote)
}

func (t *Tracker) apply(rule func(domain.Position) Transition) Transition {
	tr := rule(t.state.Position)
	t.state.Position = tr.After
	return tr
}
