// Package history derives who has partnered and opposed whom from a list of
// matches. Entries are only ever added.
package history

import (
	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/google/uuid"
)

type set map[uuid.UUID]struct{}

type History struct {
	Partners  map[uuid.UUID]set
	Opponents map[uuid.UUID]set
}

func New() *History {
	return &History{
		Partners:  make(map[uuid.UUID]set),
		Opponents: make(map[uuid.UUID]set),
	}
}

// Build collects partner and opponent sets from every given match, scheduled
// or completed.
func Build(matches []bracket.Match) *History {
	h := New()
	for i := range matches {
		h.ApplyMatch(matches[i])
	}
	return h
}

// ApplyMatch adds one match to h in place. Callers holding a snapshot that
// must not change should Clone first.
func (h *History) ApplyMatch(m bracket.Match) {
	link(h.Partners, m.A1, m.A2)
	link(h.Partners, m.B1, m.B2)
	for _, a := range m.TeamA() {
		for _, b := range m.TeamB() {
			link(h.Opponents, a, b)
		}
	}
}

func (h *History) Clone() *History {
	out := New()
	copyInto(out.Partners, h.Partners)
	copyInto(out.Opponents, h.Opponents)
	return out
}

// Merge returns the union of several histories without touching them.
func Merge(hs ...*History) *History {
	out := New()
	for _, h := range hs {
		if h == nil {
			continue
		}
		copyInto(out.Partners, h.Partners)
		copyInto(out.Opponents, h.Opponents)
	}
	return out
}

func (h *History) Partnered(a, b uuid.UUID) bool {
	_, ok := h.Partners[a][b]
	return ok
}

func (h *History) Opposed(a, b uuid.UUID) bool {
	_, ok := h.Opponents[a][b]
	return ok
}

// OpponentRepeats counts the cross-team pairs that have already met.
func (h *History) OpponentRepeats(teamA, teamB [2]uuid.UUID) int {
	n := 0
	for _, a := range teamA {
		for _, b := range teamB {
			if h.Opposed(a, b) {
				n++
			}
		}
	}
	return n
}

func link(m map[uuid.UUID]set, a, b uuid.UUID) {
	if a == b {
		return
	}
	add(m, a, b)
	add(m, b, a)
}

func add(m map[uuid.UUID]set, a, b uuid.UUID) {
	s, ok := m[a]
	if !ok {
		s = make(set)
		m[a] = s
	}
	s[b] = struct{}{}
}

func copyInto(dst, src map[uuid.UUID]set) {
	for k, s := range src {
		for v := range s {
			add(dst, k, v)
		}
	}
}
