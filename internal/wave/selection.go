package wave

import (
	"sort"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/rating"
	"github.com/google/uuid"
)

// SelectPlayers picks who plays when the field is not a multiple of four.
// Priority goes to fewer appearances in the round so far, then fewer games
// overall, then the longest idle, then the lower blend, then the lower seed.
// Both returned slices are in seed order.
func SelectPlayers(players []bracket.Player, roundMatches []bracket.Match, beta float64) (play, bench []bracket.Player) {
	appearances := make(map[uuid.UUID]int, len(players))
	for i := range roundMatches {
		for _, id := range roundMatches[i].PlayerIDs() {
			appearances[id]++
		}
	}

	queue := make([]bracket.Player, len(players))
	copy(queue, players)
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := &queue[i], &queue[j]
		if x, y := appearances[a.ID], appearances[b.ID]; x != y {
			return x < y
		}
		if a.GamesPlayed != b.GamesPlayed {
			return a.GamesPlayed < b.GamesPlayed
		}
		switch {
		case a.LastPlayedAt == nil && b.LastPlayedAt != nil:
			return true
		case a.LastPlayedAt != nil && b.LastPlayedAt == nil:
			return false
		case a.LastPlayedAt != nil && !a.LastPlayedAt.Equal(*b.LastPlayedAt):
			return a.LastPlayedAt.Before(*b.LastPlayedAt)
		}
		if x, y := rating.Blend(*a, beta), rating.Blend(*b, beta); x != y {
			return x < y
		}
		return a.Seed < b.Seed
	})

	slots := len(queue) - len(queue)%4
	return bySeed(queue[:slots]), bySeed(queue[slots:])
}
