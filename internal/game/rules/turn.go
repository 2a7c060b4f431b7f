package rules

import "fmt"

// MatchState is the coarse lifecycle state of a match.
type MatchState int

const (
	StateNotStarted MatchState = iota
	StateDecksSet
	StateRunning
	StateEnded
	StateFailed
)

var matchStateNames = map[MatchState]string{
	StateNotStarted: "NOT_STARTED",
	StateDecksSet:   "DECKS_SET",
	StateRunning:    "RUNNING",
	StateEnded:      "ENDED",
	StateFailed:     "FAILED",
}

func (s MatchState) String() string {
	if name, ok := matchStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATE_%d", int(s))
}

// Phase represents the phases of a match once it has started.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseGameStart
	PhaseRoundPrepare
	PhasePlayerAction
	PhaseRoundEnd
	PhaseEnded
)

var phaseNames = map[Phase]string{
	PhaseNone:         "NONE",
	PhaseGameStart:    "GAME_START",
	PhaseRoundPrepare: "ROUND_PREPARE",
	PhasePlayerAction: "PLAYER_ACTION",
	PhaseRoundEnd:     "ROUND_END",
	PhaseEnded:        "ENDED",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// phaseSuccessor is the only legal forward transition out of each phase.
// PhaseEnded can additionally be entered from any started phase.
var phaseSuccessor = map[Phase]Phase{
	PhaseNone:         PhaseGameStart,
	PhaseGameStart:    PhaseRoundPrepare,
	PhaseRoundPrepare: PhasePlayerAction,
	PhasePlayerAction: PhaseRoundEnd,
	PhaseRoundEnd:     PhaseRoundPrepare,
}

// PhaseTracker tracks the current phase and round number and refuses
// transitions that would skip or reverse a phase.
type PhaseTracker struct {
	phase Phase
	round int
	// Visited lists every phase entered, in order.
	visited []Phase
}

// NewPhaseTracker creates a tracker positioned before the game start.
func NewPhaseTracker() *PhaseTracker {
	return &PhaseTracker{phase: PhaseNone}
}

// RestorePhaseTracker rebuilds a tracker from persisted values.
func RestorePhaseTracker(phase Phase, round int, visited []Phase) *PhaseTracker {
	return &PhaseTracker{
		phase:   phase,
		round:   round,
		visited: append([]Phase(nil), visited...),
	}
}

// Current returns the phase currently in progress.
func (pt *PhaseTracker) Current() Phase {
	return pt.phase
}

// Round returns the current round number (0 before the first round prepare).
func (pt *PhaseTracker) Round() int {
	return pt.round
}

// Visited returns a copy of the phase history.
func (pt *PhaseTracker) Visited() []Phase {
	return append([]Phase(nil), pt.visited...)
}

// Next reports the phase Advance would move to.
func (pt *PhaseTracker) Next() (Phase, bool) {
	next, ok := phaseSuccessor[pt.phase]
	return next, ok
}

// Advance moves to the successor phase. Entering ROUND_PREPARE increments
// the round number.
func (pt *PhaseTracker) Advance() (Phase, error) {
	next, ok := phaseSuccessor[pt.phase]
	if !ok {
		return pt.phase, fmt.Errorf("no phase follows %s", pt.phase)
	}
	pt.phase = next
	if next == PhaseRoundPrepare {
		pt.round++
	}
	pt.visited = append(pt.visited, next)
	return next, nil
}

// End moves to PhaseEnded. Ending twice is a no-op.
func (pt *PhaseTracker) End() {
	if pt.phase == PhaseEnded {
		return
	}
	pt.phase = PhaseEnded
	pt.visited = append(pt.visited, PhaseEnded)
}

// IsMonotonic reports whether a phase history follows
// GAME_START -> (ROUND_PREPARE -> PLAYER_ACTION -> ROUND_END)* -> ENDED,
// where ENDED may cut any round short.
func IsMonotonic(history []Phase) bool {
	current := PhaseNone
	for _, p := range history {
		if current == PhaseEnded {
			return false
		}
		if p == PhaseEnded {
			if current == PhaseNone {
				return false
			}
			current = p
			continue
		}
		if phaseSuccessor[current] != p {
			return false
		}
		current = p
	}
	return true
}
