// Package schedule plans the stages of a tournament and turns the wave
// generators' pairings into matches for a round. Everything here is a pure
// function of its inputs; identifiers come from an injected IDSource.
package schedule

import (
	"fmt"
	"math"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
)

// progression is the target size of the next stage for common field sizes.
var progression = map[int]int{
	24: 16,
	20: 16,
	16: 12,
	12: 8,
	8:  4,
}

// nextSize halves fields the table does not cover, rounding to a multiple
// of four. Fields above eight never skip the eight-player stage.
func nextSize(n int) int {
	if t, ok := progression[n]; ok {
		return t
	}
	t := int(math.Round(float64(n)/8)) * 4
	if t < 4 {
		t = 4
	}
	if n > 8 && t < 8 {
		t = 8
	}
	return t
}

// ComputeRoundPlan returns the stages from the opening field down to the
// four-player final. Eight players go straight from one prelim to the
// final; larger fields shrink through prelims to eight, then play an eight
// stage and the final. ThreeRoundCap collapses the prelims into one that
// cuts straight to eight.
func ComputeRoundPlan(playerCount int, prefs bracket.SchedulePrefs) ([]bracket.RoundPlanEntry, error) {
	if playerCount < 8 {
		return nil, fmt.Errorf("%w: a tournament needs at least 8 players, got %d", bracket.ErrPrecondition, playerCount)
	}

	var plan []bracket.RoundPlanEntry
	if playerCount == 8 {
		plan = append(plan, bracket.RoundPlanEntry{Kind: bracket.StagePrelim, TargetSize: 4})
	} else {
		for size := playerCount; size > 8; {
			size = nextSize(size)
			plan = append(plan, bracket.RoundPlanEntry{Kind: bracket.StagePrelim, TargetSize: size})
		}
		plan = append(plan, bracket.RoundPlanEntry{Kind: bracket.StageEight, TargetSize: 4})
	}
	plan = append(plan, bracket.RoundPlanEntry{Kind: bracket.StageFinal, TargetSize: 4})

	if prefs.ThreeRoundCap && len(plan) > 3 {
		plan = []bracket.RoundPlanEntry{
			{Kind: bracket.StagePrelim, TargetSize: 8},
			{Kind: bracket.StageEight, TargetSize: 4},
			{Kind: bracket.StageFinal, TargetSize: 4},
		}
	}
	for i := range plan {
		plan[i].Index = i + 1
	}
	return plan, nil
}

// TotalWaves is how many waves give every one of n players about
// gamesPerPlayer games when only multiples of four can play at once.
func TotalWaves(n, gamesPerPlayer int) int {
	slots := 4 * (n / 4)
	if slots == 0 {
		return 0
	}
	return (gamesPerPlayer*n + slots - 1) / slots
}
