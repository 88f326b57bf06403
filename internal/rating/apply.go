package rating

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/google/uuid"
)

// InputFor builds the rating input of a scored match. prior must hold the
// matches played before m; players carry their state before m.
func InputFor(m bracket.Match, players map[uuid.UUID]*bracket.Player, prior *history.History, refCap int) (Input, error) {
	if m.ScoreA == nil || m.ScoreB == nil {
		return Input{}, fmt.Errorf("%w: match %s has no score", bracket.ErrPrecondition, m.ID)
	}
	var seats [4]*bracket.Player
	for i, id := range m.PlayerIDs() {
		p, ok := players[id]
		if !ok {
			return Input{}, fmt.Errorf("%w: player %s of match %s not found", bracket.ErrPrecondition, id, m.ID)
		}
		seats[i] = p
	}
	a1, a2, b1, b2 := seats[0], seats[1], seats[2], seats[3]

	repeatOpp := prior != nil && prior.OpponentRepeats(m.TeamA(), m.TeamB()) > 0
	avg := float64(a1.GamesPlayed+a2.GamesPlayed+b1.GamesPlayed+b2.GamesPlayed) / 4

	return Input{
		A1: a1.Rating, A2: a2.Rating, B1: b1.Rating, B2: b2.Rating,
		ScoreA:          *m.ScoreA,
		ScoreB:          *m.ScoreB,
		RoundIndex:      m.RoundIndex,
		WaveIndex:       m.Wave(),
		SamePartnerA:    lastPartner(a1, a2.ID) || lastPartner(a2, a1.ID),
		SamePartnerB:    lastPartner(b1, b2.ID) || lastPartner(b2, b1.ID),
		RepeatOpponentA: repeatOpp,
		RepeatOpponentB: repeatOpp,
		AvgGamesPlayed:  avg,
		RefCap:          refCap,
	}, nil
}

// SeatsFor returns the per-player descriptors for DoublesEloDeltaDetailed.
func SeatsFor(m bracket.Match, players map[uuid.UUID]*bracket.Player) [4]Seat {
	var seats [4]Seat
	for i, id := range m.PlayerIDs() {
		seats[i].ID = id
		p, ok := players[id]
		if !ok {
			continue
		}
		partner, _ := m.Partner(id)
		seats[i].Name = p.Name
		seats[i].RepeatPartner = lastPartner(p, partner)
	}
	return seats
}

func lastPartner(p *bracket.Player, partner uuid.UUID) bool {
	return p.LastPartnerID != nil && *p.LastPartnerID == partner
}

// Apply writes a completed match into the four players. The rounded team A
// change is added to A and subtracted from B so ratings stay integer and the
// update stays zero-sum.
func Apply(players map[uuid.UUID]*bracket.Player, m bracket.Match, d Delta, at time.Time) error {
	if !m.IsCompleted() {
		return fmt.Errorf("%w: match %s is not completed", bracket.ErrPrecondition, m.ID)
	}
	ids := m.PlayerIDs()
	var seats [4]*bracket.Player
	for i, id := range ids {
		p, ok := players[id]
		if !ok {
			return fmt.Errorf("%w: player %s of match %s not found", bracket.ErrPrecondition, id, m.ID)
		}
		seats[i] = p
	}

	step := d.Step()
	for i, p := range seats {
		partner, _ := m.Partner(ids[i])
		if m.OnTeamA(ids[i]) {
			p.Rating += step
			p.PointsFor += *m.ScoreA
			p.PointsAgainst += *m.ScoreB
		} else {
			p.Rating -= step
			p.PointsFor += *m.ScoreB
			p.PointsAgainst += *m.ScoreA
		}
		p.GamesPlayed++
		p.LastPartnerID = &partner
		ts := at
		p.LastPlayedAt = &ts
	}
	return nil
}
