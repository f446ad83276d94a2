package nav

// State is the navigation value: the displayed screen and the strictly prior screens.
//
// Invariant: after any transition the top of History is never equal to Current.
type State struct {
	Current Screen
	History []Screen
}

// Initial is the state at process start.
func Initial() State {
	return State{Current: Landing()}
}

// Top returns the most recent history entry.
func (s State) Top() (Screen, bool) {
	if len(s.History) == 0 {
		return Screen{}, false
	}
	return s.History[len(s.History)-1], true
}

func (s State) clone() State {
	out := State{Current: s.Current}
	if len(s.History) > 0 {
		out.History = append([]Screen(nil), s.History...)
	}
	return out
}

type eventOp int

const (
	opPush eventOp = iota
	opPop
	opReset
	opPrune
)

// Event is an input to Transition. Build one with Push, Pop, Reset or Prune.
type Event struct {
	op     eventOp
	screen Screen
	match  func(Screen) bool
}

// Push moves to screen, recording the current screen in history (no-op if already there).
func Push(screen Screen) Event { return Event{op: opPush, screen: screen} }

// Pop returns to the previous screen, or to the floor screen when history is empty.
func Pop() Event { return Event{op: opPop} }

// Reset clears history and shows screen.
func Reset(screen Screen) Event { return Event{op: opReset, screen: screen} }

// Prune drops every screen matching fn from history and, if the current screen
// matches, pops back to the nearest surviving one.
func Prune(fn func(Screen) bool) Event { return Event{op: opPrune, match: fn} }

// Machine applies events to a State. Floor is where Pop lands on an empty history;
// Limit bounds history length (0 = unbounded, oldest entries are dropped first).
type Machine struct {
	Floor Screen
	Limit int
}

// DefaultMachine pops to landing and keeps unbounded history.
func DefaultMachine() Machine {
	return Machine{Floor: Landing()}
}

// Transition returns the state after ev. The input state is not modified.
func (m Machine) Transition(s State, ev Event) State {
	out := s.clone()
	switch ev.op {
	case opPush:
		if ev.screen == out.Current {
			return out
		}
		out.History = append(out.History, out.Current)
		out.Current = ev.screen
		if m.Limit > 0 && len(out.History) > m.Limit {
			out.History = append([]Screen(nil), out.History[len(out.History)-m.Limit:]...)
		}
	case opPop:
		out = m.pop(out)
	case opReset:
		out.History = nil
		out.Current = ev.screen
	case opPrune:
		if ev.match == nil {
			return out
		}
		kept := out.History[:0]
		for _, sc := range out.History {
			if ev.match(sc) {
				continue
			}
			if n := len(kept); n > 0 && kept[n-1] == sc {
				continue
			}
			kept = append(kept, sc)
		}
		out.History = kept
		if ev.match(out.Current) {
			out = m.pop(out)
		}
		for {
			top, ok := out.Top()
			if !ok || top != out.Current {
				break
			}
			out.History = out.History[:len(out.History)-1]
		}
		if len(out.History) == 0 {
			out.History = nil
		}
	}
	return out
}

func (m Machine) pop(s State) State {
	if len(s.History) == 0 {
		s.Current = m.Floor
		return s
	}
	s.Current = s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	if len(s.History) == 0 {
		s.History = nil
	}
	return s
}
