package reconcile

import "time"

// Action is what a pass did for one (next, prev) pair.
type Action uint8

const (
	ActionAppend  Action = iota // Built and appended a new node
	ActionRemove                // Removed a live node
	ActionReplace               // Built a node and swapped it in
	ActionUpdate                // Synced an element in place
	ActionKeep                  // Left a text node untouched
	ActionSkip                  // Skipped a child identical to its predecessor
	ActionMiss                  // Skipped a branch: no live node or nothing built

	numActions
)

// Actions lists every action in declaration order.
var Actions = []Action{
	ActionAppend, ActionRemove, ActionReplace, ActionUpdate,
	ActionKeep, ActionSkip, ActionMiss,
}

// String returns the string representation of the Action.
func (a Action) String() string {
	switch a {
	case ActionAppend:
		return "append"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionUpdate:
		return "update"
	case ActionKeep:
		return "keep"
	case ActionSkip:
		return "skip"
	case ActionMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// PassStats summarizes one pass.
type PassStats struct {
	Session  string
	Pass     uint64
	Duration time.Duration

	// Dropped is set for a re-entrant pass that did not run.
	Dropped bool

	counts [numActions]int
}

// Count returns how many times a happened during the pass.
func (s PassStats) Count(a Action) int {
	if a >= numActions {
		return 0
	}
	return s.counts[a]
}

// Mutations returns the number of structural changes: appends, removals
// and replacements.
func (s PassStats) Mutations() int {
	return s.counts[ActionAppend] + s.counts[ActionRemove] + s.counts[ActionReplace]
}

func (s *PassStats) add(a Action) {
	if a < numActions {
		s.counts[a]++
	}
}

// Observer is notified after every pass, including dropped ones.
type Observer interface {
	ObservePass(stats PassStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stats PassStats)

// ObservePass calls f.
func (f ObserverFunc) ObservePass(stats PassStats) { f(stats) }
