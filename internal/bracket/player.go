package bracket

import (
	"time"

	"github.com/google/uuid"
)

const DefaultRating = 1000

type Player struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Name         string    `db:"name" json:"name"`

	// Seed is the initial ranking position, 1 being the strongest.
	Seed      int `db:"seed" json:"seed"`
	Rating    int `db:"rating" json:"rating"`
	SeedPrior int `db:"seed_prior" json:"seedPrior"`

	GamesPlayed   int `db:"games_played" json:"gamesPlayed"`
	PointsFor     int `db:"points_for" json:"pointsFor"`
	PointsAgainst int `db:"points_against" json:"pointsAgainst"`

	EliminatedAtRound *int `db:"eliminated_at_round" json:"eliminatedAtRound,omitempty"`
	LockedRank        *int `db:"locked_rank" json:"lockedRank,omitempty"`

	LastPartnerID *uuid.UUID `db:"last_partner_id" json:"lastPartnerId,omitempty"`
	LastPlayedAt  *time.Time `db:"last_played_at" json:"lastPlayedAt,omitempty"`
}

func (p *Player) PointDiff() int {
	return p.PointsFor - p.PointsAgainst
}

func (p *Player) Active() bool {
	return p.EliminatedAtRound == nil
}

// ByID indexes players by their id. The returned pointers alias the slice.
func ByID(players []Player) map[uuid.UUID]*Player {
	m := make(map[uuid.UUID]*Player, len(players))
	for i := range players {
		m[players[i].ID] = &players[i]
	}
	return m
}

func ActivePlayers(players []Player) []Player {
	active := make([]Player, 0, len(players))
	for _, p := range players {
		if p.Active() {
			active = append(active, p)
		}
	}
	return active
}
