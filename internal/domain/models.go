package domain

import (
	"strings"
	"time"

	"duel-tracker/internal/constants"
)

type GameRecord struct {
	MyDeck       string `json:"my_deck"`
	OpponentDeck string `json:"opponent_deck"`
	IsFirst      bool   `json:"is_first"`
	Result       bool   `json:"result"` // true = win
}

type Position struct {
	Tier         int `json:"tier"`
	Points       int `json:"points"`
	LosingStreak int `json:"losing_streak"`
}

// RankState is the persisted shape of a session: the position fields are
// flattened next to the record list.
type RankState struct {
	Position
	Records []GameRecord `json:"records"`
}

func NewRankState(tier, points int) *RankState {
	return &RankState{
		Position: Position{Tier: tier, Points: points},
		Records:  []GameRecord{},
	}
}

// Clone returns a deep copy so callers can't append to the live record list.
func (s *RankState) Clone() RankState {
	records := make([]GameRecord, len(s.Records))
	copy(records, s.Records)
	return RankState{Position: s.Position, Records: records}
}

type Bracket string

const (
	BracketMaster  Bracket = "master"
	BracketDiamond Bracket = "diamond"
)

func BracketOf(tier int) Bracket {
	if tier > constants.MasterFloorTier {
		return BracketDiamond
	}
	return BracketMaster
}

func (p Position) Bracket() Bracket {
	return BracketOf(p.Tier)
}

// Level is the tier number shown to the player inside its bracket:
// tier 10 is Diamond 5, tier 6 is Diamond 1, tier 1 is Master 1.
func (p Position) Level() int {
	if p.Bracket() == BracketDiamond {
		return p.Tier - constants.MasterFloorTier
	}
	return p.Tier
}

func PromotionThreshold(tier int) int {
	if BracketOf(tier) == BracketDiamond {
		return constants.DiamondPromotionPoints
	}
	return constants.MasterPromotionPoints
}

type MatchInput struct {
	MyDeck       string
	OpponentDeck string
	IsFirst      bool
}

func (in MatchInput) Normalize() MatchInput {
	return MatchInput{
		MyDeck:       strings.TrimSpace(in.MyDeck),
		OpponentDeck: strings.TrimSpace(in.OpponentDeck),
		IsFirst:      in.IsFirst,
	}
}

type Session struct {
	ID            string
	StartedTier   int
	StartedPoints int
	Resumed       bool
	CreatedAt     time.Time
}

// JournalEntry is one recorded match together with the rank movement it caused.
type JournalEntry struct {
	ID        string // nanoid
	SessionID string
	Sequence  int // 1-based index into the session's records
	Record    GameRecord
	Before    Position
	After     Position
	Outcome   string // "none", "promoted", "demoted", "promotion_blocked", "demotion_blocked"
	PlayedAt  time.Time
	CreatedAt time.Time
}

// SessionHistory is the journal view of one session.
type SessionHistory struct {
	Session  Session
	Games    int
	Outcomes map[string]int // keyed by outcome name
	Entries  []JournalEntry // newest first, limited
}
