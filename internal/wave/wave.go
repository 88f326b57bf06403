// Package wave pairs a set of players into 2v2 matches for one wave. Every
// generator is deterministic: the same players, history and weights always
// produce the same pairings.
package wave

import (
	"fmt"
	"math"
	"sort"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/AdamBeresnev/doubles-ladder/internal/rating"
	"github.com/google/uuid"
)

// Pairing is one generated match before it gets an id, round and court.
type Pairing struct {
	A          [2]uuid.UUID
	B          [2]uuid.UUID
	Compromise bracket.Compromise
}

func (p Pairing) IDs() [4]uuid.UUID {
	return [4]uuid.UUID{p.A[0], p.A[1], p.B[0], p.B[1]}
}

// Weights are the tunable penalties of the adaptive and gate cost functions.
// Their ordering matters more than their values: a repeat partner must
// always cost more than any repeat opponent, which costs more than a rating
// gap.
type Weights struct {
	PartnerRepeat  float64
	OpponentRepeat float64
	TierAdjacent   float64
	TierFar        float64
	// RatingGap is the team-average blend difference above which a match is
	// tagged as a rating-gap compromise.
	RatingGap float64
}

var DefaultWeights = Weights{
	PartnerRepeat:  5000,
	OpponentRepeat: 120,
	TierAdjacent:   40,
	TierFar:        250,
	RatingGap:      80,
}

// ranked is a player with the blend used to order and pair them.
type ranked struct {
	p     bracket.Player
	blend float64
}

// rankByBlend sorts strongest first; equal blends fall back to seed.
func rankByBlend(players []bracket.Player, beta float64) []ranked {
	out := make([]ranked, len(players))
	for i, p := range players {
		out[i] = ranked{p: p, blend: rating.Blend(p, beta)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].blend != out[j].blend {
			return out[i].blend > out[j].blend
		}
		return out[i].p.Seed < out[j].p.Seed
	})
	return out
}

func bySeed(players []bracket.Player) []bracket.Player {
	out := make([]bracket.Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out
}

func requireQuads(n int, what string) error {
	if n == 0 || n%4 != 0 {
		return fmt.Errorf("%w: %s needs a positive multiple of 4 players, got %d", bracket.ErrPrecondition, what, n)
	}
	return nil
}

// Tag returns the worst soft constraint the pairing breaks: a repeat
// partner, then a repeat opponent, then a team-average gap above the
// threshold.
func Tag(a, b [2]uuid.UUID, h *history.History, blend map[uuid.UUID]float64, w Weights) bracket.Compromise {
	worst := bracket.CompromiseNone
	keep := func(c bracket.Compromise) {
		if c.Severity() > worst.Severity() {
			worst = c
		}
	}
	if h != nil {
		if h.Partnered(a[0], a[1]) || h.Partnered(b[0], b[1]) {
			keep(bracket.CompromiseRepeatPartner)
		}
		if h.OpponentRepeats(a, b) > 0 {
			keep(bracket.CompromiseRepeatOpponent)
		}
	}
	avgA := (blend[a[0]] + blend[a[1]]) / 2
	avgB := (blend[b[0]] + blend[b[1]]) / 2
	if math.Abs(avgA-avgB) > w.RatingGap {
		keep(bracket.CompromiseRatingGap)
	}
	return worst
}

func blendMap(players []bracket.Player, beta float64) map[uuid.UUID]float64 {
	m := make(map[uuid.UUID]float64, len(players))
	for _, p := range players {
		m[p.ID] = rating.Blend(p, beta)
	}
	return m
}

func tagAll(pairings []Pairing, players []bracket.Player, h *history.History, beta float64, w Weights) {
	blend := blendMap(players, beta)
	for i := range pairings {
		pairings[i].Compromise = Tag(pairings[i].A, pairings[i].B, h, blend, w)
	}
}
