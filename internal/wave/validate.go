package wave

import (
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
)

// Validate checks that a wave uses every given player exactly once in
// len(players)/4 matches. A failure means the generator is broken.
func Validate(pairings []Pairing, players []bracket.Player) error {
	if len(players)%4 != 0 || len(pairings) != len(players)/4 {
		return fmt.Errorf("%w: %d matches for %d players", bracket.ErrInvariant, len(pairings), len(players))
	}
	want := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		want[p.ID] = false
	}
	for i, pr := range pairings {
		for _, id := range pr.IDs() {
			seen, ok := want[id]
			if !ok {
				return fmt.Errorf("%w: match %d uses unknown player %s", bracket.ErrInvariant, i+1, id)
			}
			if seen {
				return fmt.Errorf("%w: player %s appears twice", bracket.ErrInvariant, id)
			}
			want[id] = true
		}
	}
	for id, seen := range want {
		if !seen {
			return fmt.Errorf("%w: player %s missing from wave", bracket.ErrInvariant, id)
		}
	}
	return nil
}

// ValidateGate additionally checks every team against the ladder: partners
// at most maxGap positions apart and in the same or adjacent band.
func ValidateGate(pairings []Pairing, l *Ladder, maxGap int) error {
	if err := Validate(pairings, l.Players()); err != nil {
		return err
	}
	for i, pr := range pairings {
		for _, team := range [][2]uuid.UUID{pr.A, pr.B} {
			x, okX := l.index[team[0]]
			y, okY := l.index[team[1]]
			if !okX || !okY {
				return fmt.Errorf("%w: match %d has a player off the ladder", bracket.ErrInvariant, i+1)
			}
			if !l.validTeam(x, y, maxGap) {
				return fmt.Errorf("%w: match %d pairs ladder positions %d and %d", bracket.ErrInvariant, i+1, x+1, y+1)
			}
		}
	}
	return nil
}
