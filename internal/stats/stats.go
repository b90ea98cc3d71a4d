// Package stats aggregates a record list. Every query is a single pass and
// reports "no data" through NoData instead of dividing by zero.
package stats

import "duel-tracker/internal/domain"

type Rate struct {
	Wins  int
	Games int
}

func (r Rate) NoData() bool {
	return r.Games == 0
}

func (r Rate) Losses() int {
	return r.Games - r.Wins
}

// Percent is 0 when there is no data; check NoData first when that matters.
func (r Rate) Percent() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games) * 100
}

func (r *Rate) add(won bool) {
	r.Games++
	if won {
		r.Wins++
	}
}

type OrderShare struct {
	First  int
	Second int
}

func (s OrderShare) Games() int {
	return s.First + s.Second
}

func (s OrderShare) NoData() bool {
	return s.Games() == 0
}

func (s OrderShare) FirstPercent() float64 {
	return share(s.First, s.Games())
}

func (s OrderShare) SecondPercent() float64 {
	return share(s.Second, s.Games())
}

type OrderWinRate struct {
	First  Rate
	Second Rate
}

func (o OrderWinRate) NoData() bool {
	return o.First.NoData() && o.Second.NoData()
}

type DeckRate struct {
	Deck string
	Rate
}

type Matchup struct {
	MyDeck       string
	OpponentDeck string
	Rate
}

type DeckShare struct {
	Deck  string
	Count int
	Total int
}

func (d DeckShare) Percent() float64 {
	return share(d.Count, d.Total)
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func WinRate(records []domain.GameRecord) Rate {
	var r Rate
	for _, rec := range records {
		r.add(rec.Result)
	}
	return r
}

func FirstSecondRate(records []domain.GameRecord) OrderShare {
	var s OrderShare
	for _, rec := range records {
		if rec.IsFirst {
			s.First++
		} else {
			s.Second++
		}
	}
	return s
}

func FirstSecondWinRate(records []domain.GameRecord) OrderWinRate {
	var o OrderWinRate
	for _, rec := range records {
		if rec.IsFirst {
			o.First.add(rec.Result)
		} else {
			o.Second.add(rec.Result)
		}
	}
	return o
}

func DeckWinRate(records []domain.GameRecord, deck string) Rate {
	var r Rate
	for _, rec := range records {
		if rec.MyDeck == deck {
			r.add(rec.Result)
		}
	}
	return r
}

type matchupKey struct {
	my       string
	opponent string
}

// MatchupWinRate groups the games played with deck by opponent deck, in the
// order each pairing first appears. An empty result means no data.
func MatchupWinRate(records []domain.GameRecord, deck string) []Matchup {
	groups := newOrderedMap[matchupKey, Rate]()
	for _, rec := range records {
		if rec.MyDeck != deck {
			continue
		}
		r := groups.upsert(matchupKey{my: rec.MyDeck, opponent: rec.OpponentDeck})
		r.add(rec.Result)
	}

	out := make([]Matchup, 0, groups.len())
	groups.each(func(k matchupKey, r *Rate) {
		out = append(out, Matchup{MyDeck: k.my, OpponentDeck: k.opponent, Rate: *r})
	})
	return out
}

// OpponentDeckDistribution is the share of all games faced against each
// opponent deck, in first-seen order.
func OpponentDeckDistribution(records []domain.GameRecord) []DeckShare {
	counts := newOrderedMap[string, int]()
	for _, rec := range records {
		*counts.upsert(rec.OpponentDeck)++
	}

	out := make([]DeckShare, 0, counts.len())
	counts.each(func(deck string, n *int) {
		out = append(out, DeckShare{Deck: deck, Count: *n, Total: len(records)})
	})
	return out
}

// DeckWinRates lists the win rate of every deck the player has used.
func DeckWinRates(records []domain.GameRecord) []DeckRate {
	decks := newOrderedMap[string, Rate]()
	for _, rec := range records {
		decks.upsert(rec.MyDeck).add(rec.Result)
	}

	out := make([]DeckRate, 0, decks.len())
	decks.each(func(deck string, r *Rate) {
		out = append(out, DeckRate{Deck: deck, Rate: *r})
	})
	return out
}
