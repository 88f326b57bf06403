package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// tournamentRow carries the JSON columns next to the tournament fields.
type tournamentRow struct {
	bracket.Tournament
	PrefsJSON string `db:"prefs"`
	PlanJSON  string `db:"plan"`
}

func toRow(t *bracket.Tournament) (*tournamentRow, error) {
	prefs, err := json.MarshalToString(t.Prefs)
	if err != nil {
		return nil, fmt.Errorf("encode prefs: %w", err)
	}
	plan := t.Plan
	if plan == nil {
		plan = []bracket.RoundPlanEntry{}
	}
	planJSON, err := json.MarshalToString(plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return &tournamentRow{Tournament: *t, PrefsJSON: prefs, PlanJSON: planJSON}, nil
}

func (r *tournamentRow) decode() (*bracket.Tournament, error) {
	t := r.Tournament
	if err := json.UnmarshalFromString(r.PrefsJSON, &t.Prefs); err != nil {
		return nil, fmt.Errorf("decode prefs: %w", err)
	}
	if err := json.UnmarshalFromString(r.PlanJSON, &t.Plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &t, nil
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	row, err := toRow(tournament)
	if err != nil {
		return err
	}
	_, err = tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, slug, name, status, prefs, plan, created_at)
        VALUES (:id, :slug, :name, :status, :prefs, :plan, :created_at)`, row)
	return err
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	row, err := toRow(tournament)
	if err != nil {
		return err
	}
	_, err = tx.NamedExecContext(ctx, `UPDATE tournaments SET name = :name, status = :status, prefs = :prefs, plan = :plan
        WHERE id = :id`, row)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return s.getTournament(ctx, s.db, "SELECT * FROM tournaments WHERE id = ?", id)
}

// ResolveTournament looks a tournament up by id, or by slug when ref is not
// a uuid.
func (s *TournamentStore) ResolveTournament(ctx context.Context, ref string) (*bracket.Tournament, error) {
	return s.resolveTournament(ctx, s.db, ref)
}

func (s *TournamentStore) ResolveTournamentTx(ctx context.Context, tx *sqlx.Tx, ref string) (*bracket.Tournament, error) {
	return s.resolveTournament(ctx, tx, ref)
}

func (s *TournamentStore) resolveTournament(ctx context.Context, q sqlx.QueryerContext, ref string) (*bracket.Tournament, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.getTournament(ctx, q, "SELECT * FROM tournaments WHERE id = ?", ref)
	}
	return s.getTournament(ctx, q, "SELECT * FROM tournaments WHERE slug = ?", ref)
}

func (s *TournamentStore) getTournament(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*bracket.Tournament, error) {
	var row tournamentRow
	if err := sqlx.GetContext(ctx, q, &row, query, arg); err != nil {
		return nil, err
	}
	return row.decode()
}

func (s *TournamentStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tournaments WHERE slug = ?", slug)
	return n > 0, err
}

func (s *TournamentStore) CreatePlayers(ctx context.Context, tx *sqlx.Tx, players []bracket.Player) error {
	if len(players) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO players (id, tournament_id, name, seed, rating, seed_prior,
            games_played, points_for, points_against, eliminated_at_round, locked_rank, last_partner_id, last_played_at)
        VALUES (:id, :tournament_id, :name, :seed, :rating, :seed_prior,
            :games_played, :points_for, :points_against, :eliminated_at_round, :locked_rank, :last_partner_id, :last_played_at)`, players)
	return err
}

func (s *TournamentStore) UpdatePlayers(ctx context.Context, tx *sqlx.Tx, players []bracket.Player) error {
	for i := range players {
		_, err := tx.NamedExecContext(ctx, `UPDATE players SET rating = :rating, games_played = :games_played,
                points_for = :points_for, points_against = :points_against,
                eliminated_at_round = :eliminated_at_round, locked_rank = :locked_rank,
                last_partner_id = :last_partner_id, last_played_at = :last_played_at
            WHERE id = :id`, &players[i])
		if err != nil {
			return fmt.Errorf("update player %s: %w", players[i].ID, err)
		}
	}
	return nil
}

func (s *TournamentStore) GetPlayers(ctx context.Context, tournamentID string) ([]bracket.Player, error) {
	return getPlayers(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetPlayersTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Player, error) {
	return getPlayers(ctx, tx, tournamentID)
}

func getPlayers(ctx context.Context, q sqlx.QueryerContext, tournamentID string) ([]bracket.Player, error) {
	var players []bracket.Player
	err := sqlx.SelectContext(ctx, q, &players, "SELECT * FROM players WHERE tournament_id = ? ORDER BY seed ASC", tournamentID)
	return players, err
}

func (s *TournamentStore) CreateRound(ctx context.Context, tx *sqlx.Tx, round *bracket.Round) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO rounds (id, tournament_id, round_index, kind, status, current_wave, total_waves, target_size)
        VALUES (:id, :tournament_id, :round_index, :kind, :status, :current_wave, :total_waves, :target_size)`, round)
	return err
}

func (s *TournamentStore) UpdateRound(ctx context.Context, tx *sqlx.Tx, round *bracket.Round) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE rounds SET status = :status, current_wave = :current_wave, total_waves = :total_waves
        WHERE id = :id`, round)
	return err
}

// GetRounds returns the tournament's rounds in order with their matches
// attached.
func (s *TournamentStore) GetRounds(ctx context.Context, tournamentID string) ([]bracket.Round, error) {
	return getRounds(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetRoundsTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Round, error) {
	return getRounds(ctx, tx, tournamentID)
}

func getRounds(ctx context.Context, q sqlx.QueryerContext, tournamentID string) ([]bracket.Round, error) {
	var rounds []bracket.Round
	if err := sqlx.SelectContext(ctx, q, &rounds, "SELECT * FROM rounds WHERE tournament_id = ? ORDER BY round_index ASC", tournamentID); err != nil {
		return nil, err
	}
	matches, err := getMatches(ctx, q, tournamentID)
	if err != nil {
		return nil, err
	}
	byRound := make(map[uuid.UUID]int, len(rounds))
	for i := range rounds {
		byRound[rounds[i].ID] = i
	}
	for _, m := range matches {
		if i, ok := byRound[m.RoundID]; ok {
			rounds[i].Matches = append(rounds[i].Matches, m)
		}
	}
	return rounds, nil
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, round_id, round_index, mini_round_index, court,
            a1, a2, b1, b2, score_a, score_b, status, compromise, created_at)
        VALUES (:id, :tournament_id, :round_id, :round_index, :mini_round_index, :court,
            :a1, :a2, :b1, :b2, :score_a, :score_b, :status, :compromise, :created_at)`, matches)
	return err
}

func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET score_a = :score_a, score_b = :score_b, status = :status
        WHERE id = :id`, match)
	return err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id string) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Match, error) {
	var match bracket.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func getMatches(ctx context.Context, q sqlx.QueryerContext, tournamentID string) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := sqlx.SelectContext(ctx, q, &matches, `SELECT * FROM matches WHERE tournament_id = ?
        ORDER BY round_index ASC, mini_round_index ASC, court ASC`, tournamentID)
	return matches, err
}
