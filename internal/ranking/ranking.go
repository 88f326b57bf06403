// Package ranking orders players by performance and decides who survives a
// cut.
package ranking

import (
	"sort"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
)

type CutResult struct {
	KeepIDs       []uuid.UUID `json:"keepIds"`
	EliminatedIDs []uuid.UUID `json:"eliminatedIds"`
}

// headToHead counts, for every ordered pair (a, b), the completed matches in
// which a's team beat a team containing b.
type headToHead map[uuid.UUID]map[uuid.UUID]int

func buildHeadToHead(rounds []bracket.Round) headToHead {
	h := make(headToHead)
	for _, r := range rounds {
		for i := range r.Matches {
			m := &r.Matches[i]
			var winners, losers [2]uuid.UUID
			switch m.WinnerSide() {
			case 1:
				winners, losers = m.TeamA(), m.TeamB()
			case 2:
				winners, losers = m.TeamB(), m.TeamA()
			default:
				continue
			}
			for _, w := range winners {
				if h[w] == nil {
					h[w] = make(map[uuid.UUID]int)
				}
				for _, l := range losers {
					h[w][l]++
				}
			}
		}
	}
	return h
}

func (h headToHead) wins(a, b uuid.UUID) int {
	return h[a][b]
}

// better reports whether a ranks above b: point differential, then
// head-to-head wins between the two, then the lower seed.
func (h headToHead) better(a, b *bracket.Player) bool {
	if da, db := a.PointDiff(), b.PointDiff(); da != db {
		return da > db
	}
	if wa, wb := h.wins(a.ID, b.ID), h.wins(b.ID, a.ID); wa != wb {
		return wa > wb
	}
	return a.Seed < b.Seed
}

func (h headToHead) sort(players []bracket.Player) {
	// Seed order first so the non-transitive head-to-head tier still yields
	// the same order for the same input.
	sort.SliceStable(players, func(i, j int) bool { return players[i].Seed < players[j].Seed })
	sort.SliceStable(players, func(i, j int) bool { return h.better(&players[i], &players[j]) })
}

// CutToTarget ranks the active players and keeps the top targetSize.
func CutToTarget(players []bracket.Player, rounds []bracket.Round, targetSize int) CutResult {
	active := bracket.ActivePlayers(players)
	buildHeadToHead(rounds).sort(active)

	res := CutResult{KeepIDs: make([]uuid.UUID, 0, len(active))}
	for i, p := range active {
		if i < targetSize {
			res.KeepIDs = append(res.KeepIDs, p.ID)
		} else {
			res.EliminatedIDs = append(res.EliminatedIDs, p.ID)
		}
	}
	return res
}

// ApplyCut marks the eliminated players as out at roundIndex and freezes
// their final placement below the survivors.
func ApplyCut(players []bracket.Player, res CutResult, roundIndex int) {
	byID := bracket.ByID(players)
	for i, id := range res.EliminatedIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		round, rank := roundIndex, len(res.KeepIDs)+i+1
		p.EliminatedAtRound = &round
		p.LockedRank = &rank
	}
}

// LockFinal freezes placements 1..n for the players still standing after the
// final stage.
func LockFinal(players []bracket.Player, rounds []bracket.Round) []uuid.UUID {
	res := CutToTarget(players, rounds, len(players))
	byID := bracket.ByID(players)
	for i, id := range res.KeepIDs {
		rank := i + 1
		byID[id].LockedRank = &rank
	}
	return res.KeepIDs
}

// RankPlayers orders every player for a leaderboard: players still in first,
// then by how late they were eliminated. Locked ranks win when present.
func RankPlayers(players []bracket.Player, rounds []bracket.Round) []bracket.Player {
	out := make([]bracket.Player, len(players))
	copy(out, players)

	h := buildHeadToHead(rounds)
	h.sort(out)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.LockedRank != nil && b.LockedRank != nil {
			return *a.LockedRank < *b.LockedRank
		}
		return survival(a) > survival(b)
	})
	return out
}

func survival(p *bracket.Player) int {
	if p.EliminatedAtRound == nil {
		return int(^uint(0) >> 1)
	}
	return *p.EliminatedAtRound
}
