package history

import (
	"testing"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i + 1)})
	}
	return out
}

func match(a1, a2, b1, b2 uuid.UUID) bracket.Match {
	return bracket.Match{A1: a1, A2: a2, B1: b1, B2: b2}
}

func TestBuild(t *testing.T) {
	p := ids(4)
	h := Build([]bracket.Match{match(p[0], p[3], p[1], p[2])})

	assert.True(t, h.Partnered(p[0], p[3]))
	assert.True(t, h.Partnered(p[3], p[0]))
	assert.True(t, h.Partnered(p[1], p[2]))
	assert.False(t, h.Partnered(p[0], p[1]))

	for _, a := range []uuid.UUID{p[0], p[3]} {
		for _, b := range []uuid.UUID{p[1], p[2]} {
			assert.True(t, h.Opposed(a, b))
			assert.True(t, h.Opposed(b, a))
		}
	}
	assert.False(t, h.Opposed(p[0], p[3]))
	assert.Equal(t, 4, h.OpponentRepeats([2]uuid.UUID{p[0], p[3]}, [2]uuid.UUID{p[1], p[2]}))
	assert.Equal(t, 0, h.OpponentRepeats([2]uuid.UUID{p[0], p[1]}, [2]uuid.UUID{p[3], p[2]}))
}

func TestCloneDoesNotShareState(t *testing.T) {
	p := ids(8)
	base := Build([]bracket.Match{match(p[0], p[1], p[2], p[3])})
	clone := base.Clone()
	clone.ApplyMatch(match(p[4], p[5], p[6], p[7]))

	assert.True(t, clone.Partnered(p[4], p[5]))
	assert.False(t, base.Partnered(p[4], p[5]), "applying to a clone must not leak into the snapshot")
	assert.True(t, clone.Partnered(p[0], p[1]))
}

func TestMerge(t *testing.T) {
	p := ids(8)
	r1 := Build([]bracket.Match{match(p[0], p[1], p[2], p[3])})
	r2 := Build([]bracket.Match{match(p[0], p[2], p[4], p[5])})

	merged := Merge(r1, nil, r2)
	assert.True(t, merged.Partnered(p[0], p[1]))
	assert.True(t, merged.Partnered(p[0], p[2]))
	assert.True(t, merged.Opposed(p[0], p[4]))
	assert.True(t, merged.Opposed(p[0], p[3]))

	assert.False(t, r1.Partnered(p[0], p[2]))
	assert.False(t, r2.Partnered(p[0], p[1]))
}

func TestHistoryOnlyAccumulates(t *testing.T) {
	p := ids(4)
	h := New()
	h.ApplyMatch(match(p[0], p[1], p[2], p[3]))
	h.ApplyMatch(match(p[0], p[2], p[1], p[3]))

	assert.True(t, h.Partnered(p[0], p[1]))
	assert.True(t, h.Partnered(p[0], p[2]))
	assert.Len(t, h.Partners[p[0]], 2)
	assert.Len(t, h.Opponents[p[0]], 3)
}
