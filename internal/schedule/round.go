package schedule

import (
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/AdamBeresnev/doubles-ladder/internal/rating"
	"github.com/AdamBeresnev/doubles-ladder/internal/utils"
	"github.com/AdamBeresnev/doubles-ladder/internal/wave"
	"github.com/google/uuid"
)

// IDSource hands out identifiers for new rounds and matches.
type IDSource func() uuid.UUID

type WaveResult struct {
	Matches []bracket.Match  `json:"matches"`
	Benched []bracket.Player `json:"benched"`
}

// PrepareRound1 opens the first planned stage for the full roster.
func PrepareRound1(tournamentID uuid.UUID, players []bracket.Player, prefs bracket.SchedulePrefs, ids IDSource) (bracket.Round, error) {
	plan, err := ComputeRoundPlan(len(bracket.ActivePlayers(players)), prefs)
	if err != nil {
		return bracket.Round{}, err
	}
	return PreparePrelimRound(tournamentID, plan[0], players, prefs, ids)
}

// PreparePrelimRound opens the stage described by entry for the players
// still active. The final always plays FinalWaves waves; other stages play
// enough waves to give everyone their games per player.
func PreparePrelimRound(tournamentID uuid.UUID, entry bracket.RoundPlanEntry, players []bracket.Player, prefs bracket.SchedulePrefs, ids IDSource) (bracket.Round, error) {
	active := bracket.ActivePlayers(players)
	if len(active) < 4 {
		return bracket.Round{}, fmt.Errorf("%w: round %d needs at least 4 active players, got %d", bracket.ErrPrecondition, entry.Index, len(active))
	}
	if entry.Kind == bracket.StageFinal && len(active) != 4 {
		return bracket.Round{}, fmt.Errorf("%w: the final needs 4 active players, got %d", bracket.ErrPrecondition, len(active))
	}

	waves := bracket.FinalWaves
	if entry.Kind != bracket.StageFinal {
		waves = TotalWaves(len(active), prefs.For(entry.Index).GamesPerPlayer)
	}
	return bracket.Round{
		ID:           ids(),
		TournamentID: tournamentID,
		Index:        entry.Index,
		Kind:         entry.Kind,
		Status:       bracket.RoundActive,
		TotalWaves:   waves,
		TargetSize:   entry.TargetSize,
	}, nil
}

// GenerateR1Wave is GeneratePrelimWave for the opening stage.
func GenerateR1Wave(waveIndex int, players []bracket.Player, round bracket.Round, prefs bracket.SchedulePrefs, ids IDSource) (WaveResult, error) {
	if round.Index != 1 {
		return WaveResult{}, fmt.Errorf("%w: round %d is not the opening round", bracket.ErrPrecondition, round.Index)
	}
	return GeneratePrelimWave(waveIndex, players, round, nil, prefs, ids)
}

// GeneratePrelimWave pairs the next wave of round. Players beyond the last
// multiple of four sit out, chosen by the bench policy; the wave kind comes
// from the round's wave pattern. The history used covers priorRounds and
// the waves already generated in round.
func GeneratePrelimWave(waveIndex int, players []bracket.Player, round bracket.Round, priorRounds []bracket.Round, prefs bracket.SchedulePrefs, ids IDSource) (WaveResult, error) {
	if waveIndex != round.CurrentWave+1 || waveIndex > round.TotalWaves {
		return WaveResult{}, fmt.Errorf("%w: wave %d requested, round %d is at wave %d of %d",
			bracket.ErrPrecondition, waveIndex, round.Index, round.CurrentWave, round.TotalWaves)
	}

	active := bracket.ActivePlayers(players)
	beta := rating.Beta(round.Index, waveIndex)
	play, bench := wave.SelectPlayers(active, round.Matches, beta)

	var pairings []wave.Pairing
	var err error
	if round.Kind == bracket.StageFinal {
		pairings, err = finalWave(play, waveIndex)
	} else {
		h := history.Merge(history.Build(bracket.AllMatches(priorRounds)), history.Build(round.Matches))
		pairings, err = pairWave(prefs.For(round.Index), waveIndex, play, h, beta, prefs.PartnerGap())
	}
	if err != nil {
		return WaveResult{}, fmt.Errorf("round %d wave %d: %w", round.Index, waveIndex, err)
	}
	return WaveResult{
		Matches: toMatches(pairings, round.TournamentID, round.ID, round.Index, waveIndex, ids),
		Benched: bench,
	}, nil
}

func pairWave(rp bracket.RoundPrefs, waveIndex int, play []bracket.Player, h *history.History, beta float64, maxGap int) ([]wave.Pairing, error) {
	switch kind := rp.WaveKindAt(waveIndex); kind {
	case bracket.WaveSnake:
		return wave.Snake(play, h)
	case bracket.WaveAdaptive:
		return wave.Adaptive(play, h, beta, wave.DefaultWeights)
	case bracket.WaveExplore:
		offset := 0
		for w := 1; w < waveIndex; w++ {
			if rp.WaveKindAt(w) == bracket.WaveExplore {
				offset++
			}
		}
		return wave.Explore(wave.NewLadder(play, beta), offset, h, maxGap)
	case bracket.WaveBubble:
		return wave.Bubble(wave.NewLadder(play, beta), h, maxGap)
	default:
		return nil, fmt.Errorf("%w: unknown wave kind %q", bracket.ErrPrecondition, kind)
	}
}

func finalWave(players []bracket.Player, waveIndex int) ([]wave.Pairing, error) {
	rotation, err := wave.FinalRotation(players)
	if err != nil {
		return nil, err
	}
	if waveIndex < 1 || waveIndex > len(rotation) {
		return nil, fmt.Errorf("%w: the final has no wave %d", bracket.ErrPrecondition, waveIndex)
	}
	return rotation[waveIndex-1 : waveIndex], nil
}

type LaterRoundOptions struct {
	TournamentID uuid.UUID
	RoundID      uuid.UUID
	// Waves defaults to FinalWaves for the final and to DefaultGamesPerPlayer
	// games each otherwise.
	Waves   int
	Weights *wave.Weights
	IDs     IDSource
}

// GenerateLaterRound builds every wave of an eight or final stage at once.
// The final plays the three-way partner rotation; other stages pair each
// wave adaptively, folding the previous waves into the history as they go.
func GenerateLaterRound(players []bracket.Player, priorRounds []bracket.Round, roundIndex int, kind bracket.StageKind, opts LaterRoundOptions) ([]bracket.Match, error) {
	active := bracket.ActivePlayers(players)
	if kind == bracket.StageFinal {
		rotation, err := wave.FinalRotation(active)
		if err != nil {
			return nil, err
		}
		var out []bracket.Match
		for i := range rotation {
			out = append(out, toMatches(rotation[i:i+1], opts.TournamentID, opts.RoundID, roundIndex, i+1, opts.IDs)...)
		}
		return out, nil
	}

	waves := opts.Waves
	if waves <= 0 {
		waves = TotalWaves(len(active), bracket.DefaultGamesPerPlayer)
	}
	if waves == 0 {
		return nil, fmt.Errorf("%w: round %d has %d active players", bracket.ErrPrecondition, roundIndex, len(active))
	}
	weights := wave.DefaultWeights
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	beta := rating.Beta(roundIndex, 1)
	h := history.Build(bracket.AllMatches(priorRounds)).Clone()
	var out []bracket.Match
	for w := 1; w <= waves; w++ {
		play, _ := wave.SelectPlayers(active, out, beta)
		pairings, err := wave.Adaptive(play, h, beta, weights)
		if err != nil {
			return nil, fmt.Errorf("round %d wave %d: %w", roundIndex, w, err)
		}
		ms := toMatches(pairings, opts.TournamentID, opts.RoundID, roundIndex, w, opts.IDs)
		for _, m := range ms {
			h.ApplyMatch(m)
		}
		out = append(out, ms...)
	}
	return out, nil
}

func toMatches(pairings []wave.Pairing, tournamentID, roundID uuid.UUID, roundIndex, waveIndex int, ids IDSource) []bracket.Match {
	out := make([]bracket.Match, len(pairings))
	for i, p := range pairings {
		out[i] = bracket.Match{
			ID:             ids(),
			TournamentID:   tournamentID,
			RoundID:        roundID,
			RoundIndex:     roundIndex,
			MiniRoundIndex: utils.Ptr(waveIndex),
			Court:          i + 1,
			A1:             p.A[0],
			A2:             p.A[1],
			B1:             p.B[0],
			B2:             p.B[1],
			Status:         bracket.MatchScheduled,
			Compromise:     p.Compromise,
		}
	}
	return out
}
