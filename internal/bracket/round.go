package bracket

import "github.com/google/uuid"

type StageKind string

const (
	StagePrelim StageKind = "prelim"
	StageEight  StageKind = "eight"
	StageFinal  StageKind = "final"
)

type RoundStatus string

const (
	RoundPending RoundStatus = "pending"
	RoundActive  RoundStatus = "active"
	RoundClosed  RoundStatus = "closed"
)

// RoundPlanEntry is the declarative schedule for one stage.
type RoundPlanEntry struct {
	Index      int       `json:"index"`
	Kind       StageKind `json:"kind"`
	TargetSize int       `json:"targetSize"`
}

type Round struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TournamentID uuid.UUID   `db:"tournament_id" json:"tournamentId"`
	Index        int         `db:"round_index" json:"index"`
	Kind         StageKind   `db:"kind" json:"kind"`
	Status       RoundStatus `db:"status" json:"status"`
	CurrentWave  int         `db:"current_wave" json:"currentWave"`
	TotalWaves   int         `db:"total_waves" json:"totalWaves"`
	TargetSize   int         `db:"target_size" json:"targetSize"`

	Matches []Match `db:"-" json:"matches"`
}

// WaveMatches returns the matches generated for wave w.
func (r *Round) WaveMatches(w int) []Match {
	var out []Match
	for _, m := range r.Matches {
		if m.Wave() == w {
			out = append(out, m)
		}
	}
	return out
}

// Complete reports whether every generated wave is in and every match scored.
func (r *Round) Complete() bool {
	if r.CurrentWave < r.TotalWaves {
		return false
	}
	for i := range r.Matches {
		if !r.Matches[i].IsCompleted() {
			return false
		}
	}
	return true
}

// AllMatches flattens the matches of several rounds, preserving order.
func AllMatches(rounds []Round) []Match {
	var out []Match
	for _, r := range rounds {
		out = append(out, r.Matches...)
	}
	return out
}
