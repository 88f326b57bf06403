package rating

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Seat describes one participant for the detailed breakdown. Each player
// carries their own repeat-partner flag since lastPartnerId is per player.
type Seat struct {
	ID            uuid.UUID
	Name          string
	RepeatPartner bool
}

type PlayerDelta struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Team   string    `json:"team"`
	Delta  float64   `json:"delta"`
	Reason string    `json:"reason"`
}

type Detailed struct {
	Delta
	Expected  float64        `json:"expected"`
	Actual    float64        `json:"actual"`
	K         float64        `json:"k"`
	Raw       float64        `json:"raw"`
	Clamp     float64        `json:"clamp"`
	Clamped   bool           `json:"clamped"`
	Reason    string         `json:"reason"`
	PerPlayer [4]PlayerDelta `json:"perPlayer"`
}

// DoublesEloDeltaDetailed returns the same numbers as DoublesEloDelta plus
// human-readable reasoning. seats are ordered a1, a2, b1, b2.
func DoublesEloDeltaDetailed(in Input, seats [4]Seat) Detailed {
	b := compute(in)
	d := Detailed{
		Delta:    b.delta,
		Expected: b.expected,
		Actual:   b.actual,
		K:        b.k,
		Raw:      b.raw,
		Clamp:    b.cap,
		Clamped:  math.Abs(b.raw) > b.cap,
	}

	d.Reason = fmt.Sprintf("team A took %.0f%% of points (%d-%d) against an expected %.0f%%, K %.1f",
		b.actual*100, in.ScoreA, in.ScoreB, b.expected*100, b.k)
	if d.Clamped {
		d.Reason += fmt.Sprintf(", capped at ±%.0f", b.cap)
	}

	for i, s := range seats {
		team, delta := "A", b.delta.A
		repeatOpp := in.RepeatOpponentA
		if i >= 2 {
			team, delta = "B", b.delta.B
			repeatOpp = in.RepeatOpponentB
		}
		d.PerPlayer[i] = PlayerDelta{
			ID:     s.ID,
			Name:   s.Name,
			Team:   team,
			Delta:  delta,
			Reason: seatReason(delta, s.RepeatPartner, repeatOpp),
		}
	}
	return d
}

func seatReason(delta float64, repeatPartner, repeatOpponent bool) string {
	var parts []string
	switch {
	case delta > 0:
		parts = append(parts, fmt.Sprintf("gained %.1f", delta))
	case delta < 0:
		parts = append(parts, fmt.Sprintf("lost %.1f", -delta))
	default:
		parts = append(parts, "unchanged")
	}
	if repeatPartner {
		parts = append(parts, "same partner as last game")
	}
	if repeatOpponent {
		parts = append(parts, "rematch against a previous opponent")
	}
	return strings.Join(parts, "; ")
}
