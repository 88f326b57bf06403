package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
)

// Compromise records which soft constraint had to give for a match to exist.
type Compromise string

const (
	CompromiseNone           Compromise = ""
	CompromiseRepeatPartner  Compromise = "repeat-partner"
	CompromiseRepeatOpponent Compromise = "repeat-opponent"
	CompromiseRatingGap      Compromise = "rating-gap"
)

// Severity orders compromises so the worst one can be kept.
func (c Compromise) Severity() int {
	switch c {
	case CompromiseRepeatPartner:
		return 3
	case CompromiseRepeatOpponent:
		return 2
	case CompromiseRatingGap:
		return 1
	}
	return 0
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	RoundID      uuid.UUID `db:"round_id" json:"roundId"`

	RoundIndex     int  `db:"round_index" json:"roundIndex"`
	MiniRoundIndex *int `db:"mini_round_index" json:"miniRoundIndex,omitempty"`
	Court          int  `db:"court" json:"court"`

	A1 uuid.UUID `db:"a1" json:"a1"`
	A2 uuid.UUID `db:"a2" json:"a2"`
	B1 uuid.UUID `db:"b1" json:"b1"`
	B2 uuid.UUID `db:"b2" json:"b2"`

	ScoreA *int        `db:"score_a" json:"scoreA,omitempty"`
	ScoreB *int        `db:"score_b" json:"scoreB,omitempty"`
	Status MatchStatus `db:"status" json:"status"`

	Compromise Compromise `db:"compromise" json:"compromise,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"-"`
}

func (m *Match) TeamA() [2]uuid.UUID {
	return [2]uuid.UUID{m.A1, m.A2}
}

func (m *Match) TeamB() [2]uuid.UUID {
	return [2]uuid.UUID{m.B1, m.B2}
}

func (m *Match) PlayerIDs() [4]uuid.UUID {
	return [4]uuid.UUID{m.A1, m.A2, m.B1, m.B2}
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchCompleted && m.ScoreA != nil && m.ScoreB != nil
}

// Wave returns the wave number inside the round, 1 when the match was not
// generated as part of a wave.
func (m *Match) Wave() int {
	if m.MiniRoundIndex == nil {
		return 1
	}
	return *m.MiniRoundIndex
}

// WinnerSide returns 1 when team A won, 2 when team B won and 0 for an
// unfinished match or a tie.
func (m *Match) WinnerSide() int {
	if !m.IsCompleted() || *m.ScoreA == *m.ScoreB {
		return 0
	}
	if *m.ScoreA > *m.ScoreB {
		return 1
	}
	return 2
}

// Partner returns the teammate of id, or false when id is not in the match.
func (m *Match) Partner(id uuid.UUID) (uuid.UUID, bool) {
	switch id {
	case m.A1:
		return m.A2, true
	case m.A2:
		return m.A1, true
	case m.B1:
		return m.B2, true
	case m.B2:
		return m.B1, true
	}
	return uuid.Nil, false
}

// OnTeamA reports whether id plays on side A.
func (m *Match) OnTeamA(id uuid.UUID) bool {
	return m.A1 == id || m.A2 == id
}
