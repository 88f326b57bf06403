package rating

import (
	"math"
	"testing"
	"time"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
	"github.com/AdamBeresnev/doubles-ladder/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualRatingsCloseWin(t *testing.T) {
	d := DoublesEloDelta(Input{
		A1: 1000, A2: 1000, B1: 1000, B2: 1000,
		ScoreA: 21, ScoreB: 18,
		RoundIndex: 1, WaveIndex: 1,
	})

	assert.Greater(t, d.A, 0.0)
	assert.Equal(t, -d.A, d.B)
	assert.LessOrEqual(t, d.A, 20.0)
}

func TestZeroSumAndClamp(t *testing.T) {
	testCases := []struct {
		name   string
		in     Input
		capped float64
	}{
		{
			name:   "round 1 wave 1 shutout by the underdog",
			in:     Input{A1: 800, A2: 820, B1: 1200, B2: 1180, ScoreA: 21, ScoreB: 0, RoundIndex: 1, WaveIndex: 1},
			capped: 20,
		},
		{
			name:   "round 1 wave 2 upset",
			in:     Input{A1: 800, A2: 820, B1: 1200, B2: 1180, ScoreA: 21, ScoreB: 3, RoundIndex: 1, WaveIndex: 2},
			capped: 30,
		},
		{
			name:   "round 1 wave 3 favourite loses",
			in:     Input{A1: 1300, A2: 1250, B1: 900, B2: 950, ScoreA: 2, ScoreB: 21, RoundIndex: 1, WaveIndex: 3},
			capped: 40,
		},
		{
			name:   "round 2 blowout with flags",
			in:     Input{A1: 700, A2: 1300, B1: 1000, B2: 1000, ScoreA: 11, ScoreB: 0, RoundIndex: 2, WaveIndex: 1, SamePartnerA: true, RepeatOpponentA: true, RepeatOpponentB: true},
			capped: 40,
		},
		{
			name:   "veterans, favourite wins as expected",
			in:     Input{A1: 1100, A2: 1100, B1: 1000, B2: 1000, ScoreA: 11, ScoreB: 9, RoundIndex: 3, WaveIndex: 2, AvgGamesPlayed: 10},
			capped: 40,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := DoublesEloDelta(tc.in)
			assert.Equal(t, 0.0, d.A+d.B)
			assert.LessOrEqual(t, math.Abs(d.A), tc.capped)
			assert.Equal(t, tc.capped, WaveClamp(tc.in.RoundIndex, tc.in.WaveIndex))
		})
	}
}

func TestShutoutHitsClamp(t *testing.T) {
	d := DoublesEloDelta(Input{A1: 800, A2: 800, B1: 1200, B2: 1200, ScoreA: 21, ScoreB: 0, RoundIndex: 1, WaveIndex: 1})
	assert.Equal(t, 20.0, d.A)
	assert.Equal(t, -20.0, d.B)
}

func TestActualShareIsClamped(t *testing.T) {
	assert.Equal(t, MaxShare, Actual(21, 0))
	assert.Equal(t, MinShare, Actual(0, 21))
	assert.Equal(t, 0.5, Actual(0, 0))
	assert.InDelta(t, 21.0/39.0, Actual(21, 18), 1e-12)
}

func TestUnevenTeamIsDiscounted(t *testing.T) {
	even := effTeam(1000, 1000)
	uneven := effTeam(800, 1200)
	assert.Less(t, uneven, even)
}

func TestKFactorFavoursNewPlayers(t *testing.T) {
	base := Input{A1: 1000, A2: 1000, B1: 1000, B2: 1000, ScoreA: 21, ScoreB: 19, RoundIndex: 1}
	veteran := base
	veteran.AvgGamesPlayed = 12
	assert.Greater(t, KFactor(base), KFactor(veteran))

	flagged := veteran
	flagged.SamePartnerA = true
	assert.Less(t, KFactor(flagged), KFactor(veteran))
}

func TestDetailedMatchesPlain(t *testing.T) {
	in := Input{A1: 1040, A2: 990, B1: 1010, B2: 1000, ScoreA: 18, ScoreB: 21, RoundIndex: 1, WaveIndex: 2, SamePartnerB: true}
	seats := [4]Seat{
		{Name: "a1"}, {Name: "a2"},
		{Name: "b1", RepeatPartner: true}, {Name: "b2"},
	}
	d := DoublesEloDeltaDetailed(in, seats)

	assert.Equal(t, DoublesEloDelta(in), d.Delta)
	assert.NotEmpty(t, d.Reason)
	assert.Equal(t, "A", d.PerPlayer[0].Team)
	assert.Equal(t, "B", d.PerPlayer[3].Team)
	assert.Equal(t, d.PerPlayer[0].Delta, d.PerPlayer[1].Delta)
	assert.Equal(t, d.PerPlayer[2].Delta, d.PerPlayer[3].Delta)
	assert.Contains(t, d.PerPlayer[2].Reason, "same partner")
	assert.NotContains(t, d.PerPlayer[3].Reason, "same partner")
}

func TestSeedPriorAndBeta(t *testing.T) {
	assert.Equal(t, 1200, SeedPrior(1, 8))
	assert.Equal(t, 800, SeedPrior(8, 8))
	assert.Equal(t, 1000, SeedPrior(1, 1))
	assert.Greater(t, SeedPrior(3, 8), SeedPrior(4, 8))

	assert.Equal(t, 0.0, Beta(1, 1))
	assert.Equal(t, 0.4, Beta(1, 2))
	assert.Equal(t, 0.7, Beta(1, 3))
	assert.Equal(t, 0.7, Beta(2, 1))
	assert.Equal(t, 0.8, Beta(3, 1))

	p := bracket.Player{Rating: 1100, SeedPrior: 900}
	assert.Equal(t, 900.0, Blend(p, 0))
	assert.InDelta(t, 1040.0, Blend(p, 0.7), 1e-9)
}

func TestApply(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	players := make([]bracket.Player, 4)
	for i := range players {
		players[i] = bracket.Player{ID: ids[i], Name: string(rune('a' + i)), Rating: 1000, SeedPrior: 1000}
	}
	byID := bracket.ByID(players)
	m := bracket.Match{
		ID: uuid.New(), RoundIndex: 1, MiniRoundIndex: utils.Ptr(1),
		A1: ids[0], A2: ids[1], B1: ids[2], B2: ids[3],
		ScoreA: utils.Ptr(21), ScoreB: utils.Ptr(10), Status: bracket.MatchCompleted,
	}

	in, err := InputFor(m, byID, history.New(), 0)
	require.NoError(t, err)
	d := DoublesEloDelta(in)

	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, Apply(byID, m, d, at))

	total := 0
	for _, p := range players {
		total += p.Rating
		assert.Equal(t, 1, p.GamesPlayed)
		require.NotNil(t, p.LastPlayedAt)
		assert.Equal(t, at, *p.LastPlayedAt)
	}
	assert.Equal(t, 4000, total, "integer ratings stay zero-sum")
	assert.Greater(t, players[0].Rating, 1000)
	assert.Equal(t, 21, players[0].PointsFor)
	assert.Equal(t, 10, players[0].PointsAgainst)
	assert.Equal(t, 10, players[2].PointsFor)
	assert.Equal(t, ids[1], *players[0].LastPartnerID)
	assert.Equal(t, ids[3], *players[2].LastPartnerID)
}

func TestApplyMissingPlayerLeavesOthersUntouched(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	players := make([]bracket.Player, 3)
	for i := range players {
		players[i] = bracket.Player{ID: ids[i], Rating: 1000}
	}
	byID := bracket.ByID(players)
	m := bracket.Match{
		ID: uuid.New(), RoundIndex: 1, MiniRoundIndex: utils.Ptr(1),
		A1: ids[0], A2: ids[1], B1: ids[2], B2: ids[3],
		ScoreA: utils.Ptr(21), ScoreB: utils.Ptr(10), Status: bracket.MatchCompleted,
	}

	err := Apply(byID, m, Delta{A: 12, B: -12}, time.Now())
	require.ErrorIs(t, err, bracket.ErrPrecondition)
	for _, p := range players {
		assert.Equal(t, 1000, p.Rating)
		assert.Zero(t, p.GamesPlayed)
		assert.Zero(t, p.PointsFor)
		assert.Nil(t, p.LastPartnerID)
		assert.Nil(t, p.LastPlayedAt)
	}
}

func TestDeltaStep(t *testing.T) {
	tests := []struct {
		a    float64
		want int
	}{
		{0, 0},
		{7.4, 7},
		{7.5, 8},
		{-7.5, -8},
		{-0.4, 0},
		{20, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delta{A: tt.a, B: -tt.a}.Step(), "dA=%v", tt.a)
	}
}

func TestInputForFlags(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	players := make([]bracket.Player, 4)
	for i := range players {
		players[i] = bracket.Player{ID: ids[i], Rating: 1000, GamesPlayed: 2 * i}
	}
	players[0].LastPartnerID = &ids[1]
	byID := bracket.ByID(players)

	prior := history.Build([]bracket.Match{{A1: ids[0], A2: ids[2], B1: ids[1], B2: ids[3]}})
	m := bracket.Match{A1: ids[0], A2: ids[1], B1: ids[2], B2: ids[3], ScoreA: utils.Ptr(5), ScoreB: utils.Ptr(11), RoundIndex: 2}

	in, err := InputFor(m, byID, prior, 11)
	require.NoError(t, err)
	assert.True(t, in.SamePartnerA)
	assert.False(t, in.SamePartnerB)
	assert.True(t, in.RepeatOpponentA)
	assert.Equal(t, 3.0, in.AvgGamesPlayed)

	seats := SeatsFor(m, byID)
	assert.True(t, seats[0].RepeatPartner)
	assert.False(t, seats[1].RepeatPartner)

	_, err = InputFor(bracket.Match{}, byID, prior, 0)
	assert.ErrorIs(t, err, bracket.ErrPrecondition)
}
