package wave

import (
	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/google/uuid"
)

// Snake builds the opening wave: seed order chunked into fours, and inside
// each chunk p1+p4 play p2+p3 so both teams carry the same seed total.
// Pairings are tagged against h, which may be nil for a fresh field.
func Snake(players []bracket.Player, h *history.History) ([]Pairing, error) {
	if err := requireQuads(len(players), "snake wave"); err != nil {
		return nil, err
	}
	seeded := bySeed(players)
	pairings := make([]Pairing, 0, len(seeded)/4)
	for i := 0; i < len(seeded); i += 4 {
		q := seeded[i : i+4]
		pairings = append(pairings, Pairing{
			A: [2]uuid.UUID{q[0].ID, q[3].ID},
			B: [2]uuid.UUID{q[1].ID, q[2].ID},
		})
	}
	tagAll(pairings, players, h, 0, DefaultWeights)
	if err := Validate(pairings, players); err != nil {
		return nil, err
	}
	return pairings, nil
}
