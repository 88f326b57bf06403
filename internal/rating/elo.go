// Package rating implements the doubles Elo update and the seed/rating blend
// used to rank players for pairing.
package rating

import (
	"math"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
)

const (
	Scale = 400.0
	BaseK = 32.0

	MinShare = 0.05
	MaxShare = 0.95

	// TeammateGapFactor pulls a team's effective rating below its average in
	// proportion to the gap between the two partners.
	TeammateGapFactor = 0.05
	// PartnerGapBoost is the most the K-factor grows for lopsided pairings.
	PartnerGapBoost = 0.1
	// FlagDamping shrinks K for each repeat-partner or repeat-opponent flag.
	FlagDamping = 0.05
)

// Input describes one completed doubles match from team A's point of view.
type Input struct {
	A1, A2, B1, B2 int

	ScoreA, ScoreB int

	RoundIndex int
	WaveIndex  int

	SamePartnerA    bool
	RepeatOpponentA bool
	SamePartnerB    bool
	RepeatOpponentB bool

	AvgGamesPlayed float64

	// RefCap is the reference score cap for the round; zero means the
	// round's default cap.
	RefCap int
}

// Delta is applied to both members of a team. A + B is always zero.
type Delta struct {
	A float64 `json:"dA"`
	B float64 `json:"dB"`
}

// Step is the whole-point change Apply adds to team A and takes from team B.
func (d Delta) Step() int {
	return int(math.Round(d.A))
}

// WaveClamp bounds |dA| for a match of the given round and wave.
func WaveClamp(roundIndex, waveIndex int) float64 {
	if roundIndex <= 1 {
		switch {
		case waveIndex <= 1:
			return 20
		case waveIndex == 2:
			return 30
		}
	}
	return 40
}

func effTeam(r1, r2 float64) float64 {
	return (r1+r2)/2 - TeammateGapFactor*math.Abs(r1-r2)
}

// Expected returns team A's expected share given the two effective ratings.
func Expected(effA, effB float64) float64 {
	return 1 / (1 + math.Pow(10, (effB-effA)/Scale))
}

// Actual returns team A's share of points, kept away from 0 and 1 so a
// shutout cannot produce an unbounded update.
func Actual(scoreA, scoreB int) float64 {
	total := scoreA + scoreB
	if total <= 0 {
		return 0.5
	}
	return clamp(float64(scoreA)/float64(total), MinShare, MaxShare)
}

// KFactor scales BaseK by points played against the round's reference cap,
// by participant experience and by how uneven the pairings are.
func KFactor(in Input) float64 {
	ref := in.RefCap
	if ref <= 0 {
		ref = bracket.DefaultScoreCap(in.RoundIndex)
	}
	points := float64(in.ScoreA + in.ScoreB)
	k := BaseK * clamp(points/float64(2*ref), 0.5, 1.25)

	switch {
	case in.AvgGamesPlayed < 3:
		k *= 1.5
	case in.AvgGamesPlayed < 6:
		k *= 1.25
	}

	gap := (math.Abs(float64(in.A1-in.A2)) + math.Abs(float64(in.B1-in.B2))) / 2
	k *= 1 + PartnerGapBoost*math.Min(gap/Scale, 1)

	flags := 0
	for _, f := range []bool{in.SamePartnerA, in.RepeatOpponentA, in.SamePartnerB, in.RepeatOpponentB} {
		if f {
			flags++
		}
	}
	return k * (1 - FlagDamping*float64(flags))
}

type breakdown struct {
	effA, effB       float64
	expected, actual float64
	k, raw, cap      float64
	delta            Delta
}

func compute(in Input) breakdown {
	var b breakdown
	b.effA = effTeam(float64(in.A1), float64(in.A2))
	b.effB = effTeam(float64(in.B1), float64(in.B2))
	b.expected = Expected(b.effA, b.effB)
	b.actual = Actual(in.ScoreA, in.ScoreB)
	b.k = KFactor(in)
	b.raw = b.k * (b.actual - b.expected)
	b.cap = WaveClamp(in.RoundIndex, in.WaveIndex)

	dA := clamp(b.raw, -b.cap, b.cap)
	b.delta = Delta{A: dA, B: -dA}
	return b
}

// DoublesEloDelta computes the symmetric, bounded rating change for one match.
func DoublesEloDelta(in Input) Delta {
	return compute(in).delta
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
