package rating

import (
	"math"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
)

const (
	PriorTop    = 1200
	PriorBottom = 800
)

// SeedPrior maps a seed onto a linear rating anchor from PriorTop for seed 1
// down to PriorBottom for the last seed.
func SeedPrior(seed, fieldSize int) int {
	if fieldSize <= 1 {
		return bracket.DefaultRating
	}
	span := float64(PriorTop - PriorBottom)
	return int(math.Round(PriorTop - span*float64(seed-1)/float64(fieldSize-1)))
}

// Beta is the weight given to live rating over the seed prior. It grows with
// tournament maturity: inside round 1 it follows the wave, later rounds trust
// rating more.
func Beta(roundIndex, waveIndex int) float64 {
	switch {
	case roundIndex <= 1:
		switch {
		case waveIndex <= 1:
			return 0
		case waveIndex == 2:
			return 0.4
		}
		return 0.7
	case roundIndex == 2:
		return 0.7
	}
	return 0.8
}

func Blend(p bracket.Player, beta float64) float64 {
	return beta*float64(p.Rating) + (1-beta)*float64(p.SeedPrior)
}
