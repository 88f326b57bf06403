package bracket

import "fmt"

type WaveKind string

const (
	WaveSnake    WaveKind = "snake"
	WaveAdaptive WaveKind = "adaptive"
	WaveExplore  WaveKind = "explore"
	WaveBubble   WaveKind = "bubble"
)

const (
	DefaultGamesPerPlayer = 3
	DefaultMaxPartnerGap  = 7
	// MinPartnerGap is the smallest cap an explore wave can satisfy: its
	// cross-band snake pairs ladder positions 1 and 8.
	MinPartnerGap = 7
	FinalWaves    = 3
)

type RoundPrefs struct {
	ScoreCap       int        `json:"scoreCap,omitempty"`
	GamesPerPlayer int        `json:"gamesPerPlayer,omitempty"`
	WavePattern    []WaveKind `json:"wavePattern,omitempty"`
}

// SchedulePrefs holds the user-tunable schedule knobs. Per-round settings
// live in Rounds keyed by round index; anything missing falls back to the
// defaults documented on For.
type SchedulePrefs struct {
	ThreeRoundCap bool               `json:"threeRoundCap,omitempty"`
	MaxPartnerGap int                `json:"maxPartnerGap,omitempty"`
	Rounds        map[int]RoundPrefs `json:"rounds,omitempty"`
}

// For resolves the settings of one round. Round 1 caps games at 21 points and
// opens with a snake wave; later rounds cap at 11 and pair adaptively.
func (p SchedulePrefs) For(roundIndex int) RoundPrefs {
	rp := p.Rounds[roundIndex]
	if rp.ScoreCap <= 0 {
		rp.ScoreCap = DefaultScoreCap(roundIndex)
	}
	if rp.GamesPerPlayer <= 0 {
		rp.GamesPerPlayer = DefaultGamesPerPlayer
	}
	if len(rp.WavePattern) == 0 {
		if roundIndex == 1 {
			rp.WavePattern = []WaveKind{WaveSnake, WaveAdaptive}
		} else {
			rp.WavePattern = []WaveKind{WaveAdaptive}
		}
	}
	return rp
}

func DefaultScoreCap(roundIndex int) int {
	if roundIndex <= 1 {
		return 21
	}
	return 11
}

// PartnerGap returns the gate-wave partner gap cap.
func (p SchedulePrefs) PartnerGap() int {
	if p.MaxPartnerGap <= 0 {
		return DefaultMaxPartnerGap
	}
	return p.MaxPartnerGap
}

// WaveKindAt returns the kind of wave w; the last pattern entry repeats.
func (rp RoundPrefs) WaveKindAt(w int) WaveKind {
	if len(rp.WavePattern) == 0 {
		return WaveAdaptive
	}
	if w-1 < len(rp.WavePattern) {
		return rp.WavePattern[w-1]
	}
	return rp.WavePattern[len(rp.WavePattern)-1]
}

func (p SchedulePrefs) Validate() error {
	if p.MaxPartnerGap != 0 && p.MaxPartnerGap < MinPartnerGap {
		return fmt.Errorf("%w: max partner gap %d is below %d", ErrPrecondition, p.MaxPartnerGap, MinPartnerGap)
	}
	for idx, rp := range p.Rounds {
		if idx < 1 {
			return fmt.Errorf("%w: round index %d in prefs", ErrPrecondition, idx)
		}
		if rp.ScoreCap < 0 || rp.GamesPerPlayer < 0 {
			return fmt.Errorf("%w: round %d has negative settings", ErrPrecondition, idx)
		}
		for _, k := range rp.WavePattern {
			switch k {
			case WaveSnake, WaveAdaptive, WaveExplore, WaveBubble:
			default:
				return fmt.Errorf("%w: unknown wave kind %q in round %d", ErrPrecondition, k, idx)
			}
		}
	}
	return nil
}
