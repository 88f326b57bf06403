package wave

import (
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
)

// Explore pairs adjacent bands by snake: with bands a and b, a1+b4 play
// a2+b3 and a3+b2 play a4+b1, so every team crosses the band line and both
// teams of a match carry the same position total. Odd offsets shift the
// band pairing down by one so successive explore waves mix different
// neighbours; a band left without a neighbour plays its own snake.
func Explore(l *Ladder, offset int, h *history.History, maxGap int) ([]Pairing, error) {
	if err := requireQuads(l.Len(), "explore wave"); err != nil {
		return nil, err
	}
	bands := l.Len() / 4
	out := make([]Pairing, 0, bands)

	b := 0
	if offset%2 == 1 {
		out = append(out, l.soloBand(0))
		b = 1
	}
	for ; b+1 < bands; b += 2 {
		out = append(out, l.crossBands(b)...)
	}
	if b < bands {
		out = append(out, l.soloBand(b))
	}

	blend := l.blendMap()
	for i := range out {
		out[i].Compromise = Tag(out[i].A, out[i].B, h, blend, DefaultWeights)
	}
	if err := ValidateGate(out, l, maxGap); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Ladder) soloBand(b int) Pairing {
	o := 4 * b
	return Pairing{A: l.team(o, o+3), B: l.team(o+1, o+2)}
}

func (l *Ladder) crossBands(b int) []Pairing {
	a, c := 4*b, 4*(b+1)
	return []Pairing{
		{A: l.team(a, c+3), B: l.team(a+1, c+2)},
		{A: l.team(a+2, c+1), B: l.team(a+3, c)},
	}
}
