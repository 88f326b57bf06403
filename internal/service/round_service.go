package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/ranking"
	"github.com/AdamBeresnev/doubles-ladder/internal/schedule"
)

// NextRound opens the next planned stage. Eight and final stages are
// generated in full right away; prelim stages are generated wave by wave
// through GenerateWave.
func (s *TournamentService) NextRound(ctx context.Context, ref string) (*bracket.Round, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	st, err := s.loadState(ctx, tx, ref)
	if err != nil {
		return nil, err
	}
	t := st.tournament
	if n := len(st.rounds); n > 0 && st.rounds[n-1].Status != bracket.RoundClosed {
		return nil, fmt.Errorf("%w: round %d is still open", bracket.ErrPrecondition, st.rounds[n-1].Index)
	}
	index := len(st.rounds) + 1
	if index > len(t.Plan) {
		return nil, fmt.Errorf("%w: every planned round has been played", bracket.ErrPrecondition)
	}

	var round bracket.Round
	if index == 1 {
		round, err = schedule.PrepareRound1(t.ID, st.players, t.Prefs, s.ids)
	} else {
		round, err = schedule.PreparePrelimRound(t.ID, t.Plan[index-1], st.players, t.Prefs, s.ids)
	}
	if err != nil {
		return nil, err
	}

	if round.Kind != bracket.StagePrelim {
		round.Matches, err = schedule.GenerateLaterRound(st.players, st.rounds, round.Index, round.Kind, schedule.LaterRoundOptions{
			TournamentID: t.ID,
			RoundID:      round.ID,
			Waves:        round.TotalWaves,
			IDs:          s.ids,
		})
		if err != nil {
			return nil, err
		}
		round.CurrentWave = round.TotalWaves
		s.stamp(round.Matches)
	}

	if err := s.store.CreateRound(ctx, tx, &round); err != nil {
		return nil, err
	}
	if err := s.store.CreateMatches(ctx, tx, round.Matches); err != nil {
		return nil, err
	}
	if t.Status == bracket.TournamentDraft {
		t.Status = bracket.TournamentStarted
		if err := s.store.UpdateTournament(ctx, tx, t); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("round started", "tournament", t.ID, "round", round.Index, "kind", round.Kind,
		"waves", round.TotalWaves, "target", round.TargetSize, "matches", len(round.Matches))
	s.logCompromises(round.Matches)
	return &round, nil
}

// GenerateWave pairs the next wave of the active round. Every match of the
// previous wave must be scored first so the pairing sees current ratings.
func (s *TournamentService) GenerateWave(ctx context.Context, ref string) (*schedule.WaveResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	st, err := s.loadState(ctx, tx, ref)
	if err != nil {
		return nil, err
	}
	round, err := st.activeRound()
	if err != nil {
		return nil, err
	}
	if round.CurrentWave >= round.TotalWaves {
		return nil, fmt.Errorf("%w: all %d waves of round %d are generated", bracket.ErrPrecondition, round.TotalWaves, round.Index)
	}
	for _, m := range round.WaveMatches(round.CurrentWave) {
		if !m.IsCompleted() {
			return nil, fmt.Errorf("%w: wave %d of round %d has unscored matches", bracket.ErrPrecondition, round.CurrentWave, round.Index)
		}
	}

	waveIndex := round.CurrentWave + 1
	var res schedule.WaveResult
	if round.Index == 1 {
		res, err = schedule.GenerateR1Wave(waveIndex, st.players, *round, st.tournament.Prefs, s.ids)
	} else {
		res, err = schedule.GeneratePrelimWave(waveIndex, st.players, *round, st.priorRounds(), st.tournament.Prefs, s.ids)
	}
	if err != nil {
		return nil, err
	}
	s.stamp(res.Matches)

	if err := s.store.CreateMatches(ctx, tx, res.Matches); err != nil {
		return nil, err
	}
	round.CurrentWave = waveIndex
	if err := s.store.UpdateRound(ctx, tx, round); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("wave generated", "tournament", st.tournament.ID, "round", round.Index, "wave", waveIndex,
		"matches", len(res.Matches), "benched", len(res.Benched))
	s.logCompromises(res.Matches)
	return &res, nil
}

// CloseRound cuts the field to the round's target once every wave is in and
// scored. Closing the final locks the placements of the finalists and
// completes the tournament.
func (s *TournamentService) CloseRound(ctx context.Context, ref string) (*ranking.CutResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	st, err := s.loadState(ctx, tx, ref)
	if err != nil {
		return nil, err
	}
	round, err := st.activeRound()
	if err != nil {
		return nil, err
	}
	if !round.Complete() {
		return nil, fmt.Errorf("%w: round %d still has waves to play or matches to score", bracket.ErrPrecondition, round.Index)
	}

	var res ranking.CutResult
	if round.Kind == bracket.StageFinal {
		res.KeepIDs = ranking.LockFinal(st.players, st.rounds)
		st.tournament.Status = bracket.TournamentCompleted
		if err := s.store.UpdateTournament(ctx, tx, st.tournament); err != nil {
			return nil, err
		}
	} else {
		res = ranking.CutToTarget(st.players, st.rounds, round.TargetSize)
		ranking.ApplyCut(st.players, res, round.Index)
	}
	if err := s.store.UpdatePlayers(ctx, tx, st.players); err != nil {
		return nil, err
	}

	round.Status = bracket.RoundClosed
	if err := s.store.UpdateRound(ctx, tx, round); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("round closed", "tournament", st.tournament.ID, "round", round.Index, "kind", round.Kind,
		"kept", len(res.KeepIDs), "eliminated", len(res.EliminatedIDs))
	return &res, nil
}

// Standings ranks every player of the tournament, finalists first.
func (s *TournamentService) Standings(ctx context.Context, ref string) ([]bracket.Player, error) {
	data, err := s.GetTournamentData(ctx, ref)
	if err != nil {
		return nil, err
	}
	return ranking.RankPlayers(data.Players, data.Rounds), nil
}

func (s *TournamentService) stamp(matches []bracket.Match) {
	now := s.now()
	for i := range matches {
		matches[i].CreatedAt = now
	}
}

func (s *TournamentService) logCompromises(matches []bracket.Match) {
	for _, m := range matches {
		if m.Compromise != bracket.CompromiseNone {
			s.log.Warn("pairing compromise", "match", m.ID, "round", m.RoundIndex, "wave", m.Wave(),
				"court", m.Court, "compromise", m.Compromise)
		}
	}
}
