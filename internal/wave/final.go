package wave

import (
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
)

// finalSplits lists the three ways to split four seeded players into two
// teams, in the order the waves are played.
var finalSplits = [bracket.FinalWaves][4]int{
	{0, 3, 1, 2},
	{0, 2, 1, 3},
	{0, 1, 2, 3},
}

// FinalRotation returns one match per final wave so that each finalist
// partners every other finalist exactly once.
func FinalRotation(players []bracket.Player) ([]Pairing, error) {
	if len(players) != 4 {
		return nil, fmt.Errorf("%w: the final needs exactly 4 players, got %d", bracket.ErrPrecondition, len(players))
	}
	seeded := bySeed(players)
	out := make([]Pairing, 0, len(finalSplits))
	for _, s := range finalSplits {
		pr := Pairing{
			A: [2]uuid.UUID{seeded[s[0]].ID, seeded[s[1]].ID},
			B: [2]uuid.UUID{seeded[s[2]].ID, seeded[s[3]].ID},
		}
		if err := Validate([]Pairing{pr}, players); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, nil
}
