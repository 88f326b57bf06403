package wave

import (
	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
)

// Ladder orders the players of a gate wave. Position 1 is the top; every
// four consecutive positions form a band. With beta 0 the ladder is plain
// seed order.
type Ladder struct {
	rungs []ranked
	index map[uuid.UUID]int
}

func NewLadder(players []bracket.Player, beta float64) *Ladder {
	l := &Ladder{rungs: rankByBlend(players, beta), index: make(map[uuid.UUID]int, len(players))}
	for i, r := range l.rungs {
		l.index[r.p.ID] = i
	}
	return l
}

func (l *Ladder) Len() int {
	return len(l.rungs)
}

// Players returns the ladder's players, top first.
func (l *Ladder) Players() []bracket.Player {
	out := make([]bracket.Player, len(l.rungs))
	for i, r := range l.rungs {
		out[i] = r.p
	}
	return out
}

// Position returns the 1-based ladder position of a player, 0 if absent.
func (l *Ladder) Position(id uuid.UUID) int {
	i, ok := l.index[id]
	if !ok {
		return 0
	}
	return i + 1
}

func (l *Ladder) id(i int) uuid.UUID {
	return l.rungs[i].p.ID
}

func (l *Ladder) team(x, y int) [2]uuid.UUID {
	return [2]uuid.UUID{l.id(x), l.id(y)}
}

func band(i int) int {
	return i / 4
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (l *Ladder) validTeam(x, y, maxGap int) bool {
	return x != y && abs(x-y) <= maxGap && abs(band(x)-band(y)) <= 1
}

func (l *Ladder) blendMap() map[uuid.UUID]float64 {
	m := make(map[uuid.UUID]float64, len(l.rungs))
	for _, r := range l.rungs {
		m[r.p.ID] = r.blend
	}
	return m
}

// quadSplits are the three ways to split four sorted positions into teams.
var quadSplits = [3][4]int{
	{0, 3, 1, 2},
	{0, 2, 1, 3},
	{0, 1, 2, 3},
}

// balancedSplit picks the valid split of q whose team blend sums are
// closest. ok is false when no split respects the team rule.
func (l *Ladder) balancedSplit(q [4]int, maxGap int) (match [2][2]int, ok bool) {
	best := -1.0
	for _, s := range quadSplits {
		x := [2]int{q[s[0]], q[s[1]]}
		y := [2]int{q[s[2]], q[s[3]]}
		if !l.validTeam(x[0], x[1], maxGap) || !l.validTeam(y[0], y[1], maxGap) {
			continue
		}
		diff := l.rungs[x[0]].blend + l.rungs[x[1]].blend - l.rungs[y[0]].blend - l.rungs[y[1]].blend
		if diff < 0 {
			diff = -diff
		}
		if !ok || diff < best {
			match, best, ok = [2][2]int{x, y}, diff, true
		}
	}
	return match, ok
}
