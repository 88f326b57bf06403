package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/rating"
	"github.com/AdamBeresnev/doubles-ladder/internal/schedule"
	"github.com/AdamBeresnev/doubles-ladder/internal/store"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
)

const maxNameLength = 50

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	ids   schedule.IDSource
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*TournamentService)

func WithIDSource(ids schedule.IDSource) Option {
	return func(s *TournamentService) { s.ids = ids }
}

func WithClock(now func() time.Time) Option {
	return func(s *TournamentService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TournamentService) { s.log = l }
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, opts ...Option) *TournamentService {
	s := &TournamentService{
		db:    db,
		store: store,
		ids:   uuid.New,
		now:   func() time.Time { return time.Now().UTC() },
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PlayerInput struct {
	Name string `json:"name"`
}

type CreateTournamentInput struct {
	Name    string                `json:"name"`
	Players []PlayerInput         `json:"players"`
	Prefs   bracket.SchedulePrefs `json:"prefs"`
}

type TournamentData struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Rounds     []bracket.Round     `json:"rounds"`
	Players    []bracket.Player    `json:"players"`
}

func (s *TournamentService) GetTournamentData(ctx context.Context, ref string) (*TournamentData, error) {
	tournament, err := s.store.ResolveTournament(ctx, ref)
	if err != nil {
		return nil, err
	}
	id := tournament.ID.String()

	rounds, err := s.store.GetRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.store.GetPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TournamentData{Tournament: tournament, Rounds: rounds, Players: players}, nil
}

// CreateTournament registers the roster in the given order, so the first
// player is seed 1, and fixes the round plan.
func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", bracket.ErrPrecondition)
	}
	if err := input.Prefs.Validate(); err != nil {
		return nil, err
	}
	for i, p := range input.Players {
		n := strings.TrimSpace(p.Name)
		if n == "" || len(n) > maxNameLength {
			return nil, fmt.Errorf("%w: player %d needs a name of 1 to %d characters", bracket.ErrPrecondition, i+1, maxNameLength)
		}
	}
	plan, err := schedule.ComputeRoundPlan(len(input.Players), input.Prefs)
	if err != nil {
		return nil, err
	}
	tournamentSlug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament := bracket.Tournament{
		ID:        s.ids(),
		Slug:      tournamentSlug,
		Name:      name,
		Status:    bracket.TournamentDraft,
		Prefs:     input.Prefs,
		Plan:      plan,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return nil, err
	}

	players := make([]bracket.Player, len(input.Players))
	for i, in := range input.Players {
		seed := i + 1
		players[i] = bracket.Player{
			ID:           s.ids(),
			TournamentID: tournament.ID,
			Name:         strings.TrimSpace(in.Name),
			Seed:         seed,
			Rating:       bracket.DefaultRating,
			SeedPrior:    rating.SeedPrior(seed, len(input.Players)),
		}
	}
	if err := s.store.CreatePlayers(ctx, tx, players); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.log.Info("tournament created", "tournament", tournament.ID, "slug", tournament.Slug, "players", len(players), "rounds", len(plan))
	return &tournament, nil
}

func (s *TournamentService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "tournament"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// state is everything a round operation reads, loaded inside its transaction.
type state struct {
	tournament *bracket.Tournament
	players    []bracket.Player
	rounds     []bracket.Round
}

func (s *TournamentService) loadState(ctx context.Context, tx *sqlx.Tx, ref string) (*state, error) {
	tournament, err := s.store.ResolveTournamentTx(ctx, tx, ref)
	if err != nil {
		return nil, err
	}
	id := tournament.ID.String()
	players, err := s.store.GetPlayersTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	rounds, err := s.store.GetRoundsTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return &state{tournament: tournament, players: players, rounds: rounds}, nil
}

// activeRound returns the last round when it is still open.
func (st *state) activeRound() (*bracket.Round, error) {
	if len(st.rounds) == 0 || st.rounds[len(st.rounds)-1].Status != bracket.RoundActive {
		return nil, fmt.Errorf("%w: tournament %s has no active round", bracket.ErrPrecondition, st.tournament.Slug)
	}
	return &st.rounds[len(st.rounds)-1], nil
}

func (st *state) priorRounds() []bracket.Round {
	if len(st.rounds) == 0 {
		return nil
	}
	return st.rounds[:len(st.rounds)-1]
}
