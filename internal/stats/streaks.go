package stats

import "duel-tracker/internal/domain"

type Streaks struct {
	Current     int // positive for wins, negative for losses
	LongestWin  int
	LongestLoss int
}

// CalculateStreaks walks the records in play order.
func CalculateStreaks(records []domain.GameRecord) Streaks {
	var s Streaks
	wins, losses := 0, 0

	for _, rec := range records {
		if rec.Result {
			wins++
			losses = 0
			if wins > s.LongestWin {
				s.LongestWin = wins
			}
			continue
		}
		losses++
		wins = 0
		if losses > s.LongestLoss {
			s.LongestLoss = losses
		}
	}

	switch {
	case wins > 0:
		s.Current = wins
	case losses > 0:
		s.Current = -losses
	}
	return s
}

func (s Streaks) Winning() bool {
	return s.Current > 0
}

func (s Streaks) Length() int {
	if s.Current < 0 {
		return -s.Current
	}
	return s.Current
}
