package wave

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/history"
)

// SearchBudget bounds the nodes the gate search visits. When it runs out
// the best assignment found so far stands.
const SearchBudget = 1 << 20

var ErrInfeasible = fmt.Errorf("%w: no feasible gate assignment", bracket.ErrInvariant)

// Bubble builds a promotion/relegation wave. Every band boundary is a gate:
// the bottom player of the upper band faces the top player of the lower
// band, and each picks a partner from its own or a neighbouring band. The
// four players no gate used form the last match.
//
// Assignments are compared by, in order: repeat partners, the largest
// partner gap, partners exactly at maxGap, the sum of gaps, and finally the
// partner positions read as a tuple.
func Bubble(l *Ladder, h *history.History, maxGap int) ([]Pairing, error) {
	if err := requireQuads(l.Len(), "bubble wave"); err != nil {
		return nil, err
	}
	if h == nil {
		h = history.New()
	}
	s := newGateSearch(l, h, maxGap)
	s.seed()
	s.run()
	if s.best == nil {
		return nil, ErrInfeasible
	}

	out := make([]Pairing, 0, len(s.best.matches))
	blend := l.blendMap()
	for _, m := range s.best.matches {
		a, b := l.team(m[0][0], m[0][1]), l.team(m[1][0], m[1][1])
		out = append(out, Pairing{A: a, B: b, Compromise: Tag(a, b, h, blend, DefaultWeights)})
	}
	if err := ValidateGate(out, l, maxGap); err != nil {
		return nil, err
	}
	return out, nil
}

type gateScore struct {
	head  [4]int // repeats, max gap, at cap, sum of gaps
	tuple []int
}

func compareInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func (s gateScore) compare(o gateScore) int {
	if c := compareInts(s.head[:], o.head[:]); c != 0 {
		return c
	}
	return compareInts(s.tuple, o.tuple)
}

type gateSolution struct {
	score   gateScore
	matches [][2][2]int
}

type gateFrame struct {
	gate    int
	options [][2]int
	next    int
	applied bool
}

type gateSearch struct {
	l      *Ladder
	h      *history.History
	maxGap int
	gates  int

	used   []bool
	chosen [][2]int
	best   *gateSolution
	nodes  int
}

func newGateSearch(l *Ladder, h *history.History, maxGap int) *gateSearch {
	s := &gateSearch{
		l:      l,
		h:      h,
		maxGap: maxGap,
		gates:  l.Len()/4 - 1,
		used:   make([]bool, l.Len()),
	}
	s.chosen = make([][2]int, s.gates)
	for g := 0; g < s.gates; g++ {
		u, d := s.edges(g)
		s.used[u], s.used[d] = true, true
	}
	return s
}

// edges returns the ladder indices facing each other at gate g.
func (s *gateSearch) edges(g int) (int, int) {
	return 4*g + 3, 4*g + 4
}

func (s *gateSearch) gap(x, y int) int {
	return abs(x - y)
}

func (s *gateSearch) repeat(x, y int) int {
	if s.h.Partnered(s.l.id(x), s.l.id(y)) {
		return 1
	}
	return 0
}

func (s *gateSearch) addTeam(head *[4]int, x, y int) {
	g := s.gap(x, y)
	head[0] += s.repeat(x, y)
	if g > head[1] {
		head[1] = g
	}
	if g == s.maxGap {
		head[2]++
	}
	head[3] += g
}

// partial scores the gates chosen so far, 0..depth.
func (s *gateSearch) partial(depth int) [4]int {
	var head [4]int
	for g := 0; g <= depth; g++ {
		u, d := s.edges(g)
		s.addTeam(&head, u, s.chosen[g][0])
		s.addTeam(&head, d, s.chosen[g][1])
	}
	return head
}

func (s *gateSearch) candidates(x int) []int {
	var out []int
	for i := range s.used {
		if !s.used[i] && s.l.validTeam(x, i, s.maxGap) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if gi, gj := s.gap(x, out[i]), s.gap(x, out[j]); gi != gj {
			return gi < gj
		}
		return out[i] < out[j]
	})
	return out
}

func (s *gateSearch) frame(g int) *gateFrame {
	u, d := s.edges(g)
	var opts [][2]int
	for _, pu := range s.candidates(u) {
		for _, pd := range s.candidates(d) {
			if pu != pd {
				opts = append(opts, [2]int{pu, pd})
			}
		}
	}
	key := func(o [2]int) [5]int {
		gu, gd := s.gap(u, o[0]), s.gap(d, o[1])
		return [5]int{s.repeat(u, o[0]) + s.repeat(d, o[1]), max(gu, gd), gu + gd, o[0], o[1]}
	}
	sort.SliceStable(opts, func(i, j int) bool {
		ki, kj := key(opts[i]), key(opts[j])
		return compareInts(ki[:], kj[:]) < 0
	})
	return &gateFrame{gate: g, options: opts}
}

func (s *gateSearch) take(g int, opt [2]int) {
	s.chosen[g] = opt
	s.used[opt[0]], s.used[opt[1]] = true, true
}

func (s *gateSearch) release(g int) {
	opt := s.chosen[g]
	s.used[opt[0]], s.used[opt[1]] = false, false
}

// stranded reports whether the unused players no later gate can reach
// already rule out a valid final four. After gate g, gate g+1 reaches band g
// at the highest.
func (s *gateSearch) stranded(g int) bool {
	count, lo, hi := 0, -1, -1
	for i, u := range s.used {
		if u || band(i) > g-1 {
			continue
		}
		count++
		if lo < 0 || band(i) < lo {
			lo = band(i)
		}
		if band(i) > hi {
			hi = band(i)
		}
	}
	return count > 4 || (count > 0 && hi-lo > 1)
}

// finish scores the complete assignment, filling the last match from the
// four unused players, and keeps it when it beats the best so far.
func (s *gateSearch) finish() {
	var rest []int
	for i, u := range s.used {
		if !u {
			rest = append(rest, i)
		}
	}
	if len(rest) != 4 {
		return
	}
	last, ok := s.l.balancedSplit([4]int{rest[0], rest[1], rest[2], rest[3]}, s.maxGap)
	if !ok {
		return
	}

	var head [4]int
	tuple := make([]int, 0, 2*s.gates+4)
	matches := make([][2][2]int, 0, s.gates+1)
	for g := 0; g < s.gates; g++ {
		u, d := s.edges(g)
		pu, pd := s.chosen[g][0], s.chosen[g][1]
		s.addTeam(&head, u, pu)
		s.addTeam(&head, d, pd)
		tuple = append(tuple, pu+1, pd+1)
		matches = append(matches, [2][2]int{{u, pu}, {d, pd}})
	}
	s.addTeam(&head, last[0][0], last[0][1])
	s.addTeam(&head, last[1][0], last[1][1])
	tuple = append(tuple, last[0][0]+1, last[0][1]+1, last[1][0]+1, last[1][1]+1)
	matches = append(matches, last)

	score := gateScore{head: head, tuple: tuple}
	if s.best == nil || score.compare(s.best.score) < 0 {
		s.best = &gateSolution{score: score, matches: matches}
	}
}

// seed installs a known-feasible assignment as the first incumbent: the
// top three positions and position 6 sit out the gates, and the remaining
// free positions are handed to the gates two at a time in ladder order.
func (s *gateSearch) seed() {
	if s.gates == 0 {
		return
	}
	reserved := map[int]bool{0: true, 1: true, 2: true, 5: true}
	var free []int
	for i, u := range s.used {
		if !u && !reserved[i] {
			free = append(free, i)
		}
	}
	if len(free) != 2*s.gates {
		return
	}
	for g := 0; g < s.gates; g++ {
		u, d := s.edges(g)
		if !s.l.validTeam(u, free[2*g], s.maxGap) || !s.l.validTeam(d, free[2*g+1], s.maxGap) {
			return
		}
	}
	for g := 0; g < s.gates; g++ {
		s.take(g, [2]int{free[2*g], free[2*g+1]})
	}
	s.finish()
	for g := 0; g < s.gates; g++ {
		s.release(g)
	}
}

// run is a depth-first search over gate assignments kept on an explicit
// stack. A frame holds the options for one gate and the index of the next
// one to try; its current choice is undone before the next is taken.
func (s *gateSearch) run() {
	if s.gates == 0 {
		s.finish()
		return
	}
	stack := []*gateFrame{s.frame(0)}
	for len(stack) > 0 && s.nodes < SearchBudget {
		f := stack[len(stack)-1]
		if f.applied {
			s.release(f.gate)
			f.applied = false
		}
		if f.next >= len(f.options) {
			stack = stack[:len(stack)-1]
			continue
		}
		opt := f.options[f.next]
		f.next++
		s.take(f.gate, opt)
		f.applied = true
		s.nodes++

		if s.best != nil && compareInts(s.partialHead(f.gate), s.best.score.head[:]) > 0 {
			continue
		}
		if f.gate == s.gates-1 {
			s.finish()
			continue
		}
		if s.stranded(f.gate) {
			continue
		}
		stack = append(stack, s.frame(f.gate+1))
	}
	// Leave the shared state clean if the budget cut the search short.
	for _, f := range stack {
		if f.applied {
			s.release(f.gate)
		}
	}
}

func (s *gateSearch) partialHead(depth int) []int {
	h := s.partial(depth)
	return h[:]
}
