package db

import (
	"time"
)

type Session struct {
	ID            string
	StartedTier   int64
	StartedPoints int64
	Resumed       bool
	CreatedAt     time.Time
}

type MatchJournal struct {
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
