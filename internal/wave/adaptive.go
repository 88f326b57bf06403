package wave

import (
	"math"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/google/uuid"
)

// Adaptive pairs players for every wave after the opening one. Players are
// ranked by blend and grouped in tiers of four; teammates are chosen
// greedily by the cheapest partner cost, then teams are matched greedily by
// the cheapest match cost. The greedy passes are not globally optimal; all
// constraints here are soft and violations end up in the Compromise tag.
func Adaptive(players []bracket.Player, h *history.History, beta float64, w Weights) ([]Pairing, error) {
	if err := requireQuads(len(players), "adaptive wave"); err != nil {
		return nil, err
	}
	if h == nil {
		h = history.New()
	}
	rs := rankByBlend(players, beta)

	teams := pairTeammates(rs, h, w)
	pairings := matchTeams(rs, teams, h, w)

	blend := make(map[uuid.UUID]float64, len(rs))
	for _, r := range rs {
		blend[r.p.ID] = r.blend
	}
	for i := range pairings {
		pairings[i].Compromise = Tag(pairings[i].A, pairings[i].B, h, blend, w)
	}
	if err := Validate(pairings, players); err != nil {
		return nil, err
	}
	return pairings, nil
}

func partnerCost(rs []ranked, i, j int, h *history.History, w Weights) float64 {
	cost := math.Abs(rs[i].blend - rs[j].blend)
	if h.Partnered(rs[i].p.ID, rs[j].p.ID) {
		cost += w.PartnerRepeat
	}
	switch d := i/4 - j/4; {
	case d == 0:
	case d == 1 || d == -1:
		cost += w.TierAdjacent
	default:
		cost += w.TierFar
	}
	return cost
}

// pairTeammates repeatedly takes the cheapest unpaired couple. Ties keep the
// first couple found in ranking order.
func pairTeammates(rs []ranked, h *history.History, w Weights) [][2]int {
	n := len(rs)
	paired := make([]bool, n)
	teams := make([][2]int, 0, n/2)
	for len(teams) < n/2 {
		bi, bj, best := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if paired[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if paired[j] {
					continue
				}
				if c := partnerCost(rs, i, j, h, w); c < best {
					bi, bj, best = i, j, c
				}
			}
		}
		paired[bi], paired[bj] = true, true
		teams = append(teams, [2]int{bi, bj})
	}
	return teams
}

func teamIDs(rs []ranked, t [2]int) [2]uuid.UUID {
	return [2]uuid.UUID{rs[t[0]].p.ID, rs[t[1]].p.ID}
}

func matchCost(rs []ranked, x, y [2]int, h *history.History, w Weights) float64 {
	sumX := rs[x[0]].blend + rs[x[1]].blend
	sumY := rs[y[0]].blend + rs[y[1]].blend
	a, b := teamIDs(rs, x), teamIDs(rs, y)

	cost := math.Abs(sumX-sumY) + float64(h.OpponentRepeats(a, b))*w.OpponentRepeat
	if h.Partnered(a[0], a[1]) {
		cost += w.PartnerRepeat
	}
	if h.Partnered(b[0], b[1]) {
		cost += w.PartnerRepeat
	}
	return cost
}

func matchTeams(rs []ranked, teams [][2]int, h *history.History, w Weights) []Pairing {
	used := make([]bool, len(teams))
	out := make([]Pairing, 0, len(teams)/2)
	for len(out) < len(teams)/2 {
		bx, by, best := -1, -1, math.Inf(1)
		for x := range teams {
			if used[x] {
				continue
			}
			for y := x + 1; y < len(teams); y++ {
				if used[y] {
					continue
				}
				if c := matchCost(rs, teams[x], teams[y], h, w); c < best {
					bx, by, best = x, y, c
				}
			}
		}
		used[bx], used[by] = true, true
		out = append(out, Pairing{A: teamIDs(rs, teams[bx]), B: teamIDs(rs, teams[by])})
	}
	return out
}
