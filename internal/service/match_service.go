package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/AdamBeresnev/doubles-ladder/internal/rating"
	"github.com/google/uuid"
)

type ScoreResult struct {
	Match  *bracket.Match  `json:"match"`
	Rating rating.Detailed `json:"rating"`
	// Applied is the whole-point change added to team A and taken from team B.
	Applied int `json:"applied"`
}

// RecordScore completes a match and applies its rating change to the four
// players. A completed match is never rescored.
func (s *TournamentService) RecordScore(ctx context.Context, matchID uuid.UUID, scoreA, scoreB int) (*ScoreResult, error) {
	if scoreA < 0 || scoreB < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", bracket.ErrPrecondition)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match.IsCompleted() {
		return nil, fmt.Errorf("%w: match %s is already scored", bracket.ErrPrecondition, match.ID)
	}

	st, err := s.loadState(ctx, tx, match.TournamentID.String())
	if err != nil {
		return nil, err
	}

	var prior []bracket.Match
	for _, m := range bracket.AllMatches(st.rounds) {
		if m.IsCompleted() && m.ID != match.ID {
			prior = append(prior, m)
		}
	}

	match.ScoreA, match.ScoreB = &scoreA, &scoreB
	match.Status = bracket.MatchCompleted

	byID := bracket.ByID(st.players)
	in, err := rating.InputFor(*match, byID, history.Build(prior), st.tournament.Prefs.For(match.RoundIndex).ScoreCap)
	if err != nil {
		return nil, err
	}
	detailed := rating.DoublesEloDeltaDetailed(in, rating.SeatsFor(*match, byID))
	if err := rating.Apply(byID, *match, detailed.Delta, s.now()); err != nil {
		return nil, err
	}

	touched := make([]bracket.Player, 0, 4)
	for _, id := range match.PlayerIDs() {
		touched = append(touched, *byID[id])
	}
	if err := s.store.UpdatePlayers(ctx, tx, touched); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("match scored", "match", match.ID, "round", match.RoundIndex, "wave", match.Wave(),
		"score", fmt.Sprintf("%d-%d", scoreA, scoreB), "applied", detailed.Step(), "clamped", detailed.Clamped)
	return &ScoreResult{Match: match, Rating: detailed, Applied: detailed.Step()}, nil
}
