package domain

// StateType classifies a state by the edges it currently carries.
type StateType int

const (
	NotDec StateType = iota
	Markov
	Interactive
	Hybrid
)

func (t StateType) String() string {
	switch t {
	case NotDec:
		return "NOTDEC"
	case Markov:
		return "MARKOV"
	case Interactive:
		return "INTERACTIVE"
	case Hybrid:
		return "HYBRID"
	default:
		return "UNKNOWN"
	}
}

// StateHandle addresses a State within its owning Graph's arena. It is
// never reused, so it stays valid across prune/sort/rebuild passes
// even though the graph's iteration order and Number field change.
type StateHandle uint64

// Transition is an owned, source-less (target, label) pair; the
// source is implicit in which State.Transitions slice holds it.
type Transition struct {
	Target StateHandle
	Label  *Label
}

// State is an entity in the arena: outgoing transitions, inferred
// type, mark bit, assigned number, and a non-owning back-reference to
// a synthetic interactive predecessor minted for it by the rebuilder.
type State struct {
	handle      StateHandle
	Transitions []Transition
	Type        StateType
	Mark        bool
	Number      uint32

	hasInteractivePred bool
	interactivePred    StateHandle

	// MarkovSuccFinished memoizes the closure engine (4.E): once true,
	// this state's Transitions already hold its closed Markov/terminal
	// successors and must not be recomputed.
	MarkovSuccFinished bool
}

func newState(h StateHandle) *State {
	return &State{handle: h, Type: NotDec}
}

// Handle returns the state's stable arena address.
func (s *State) Handle() StateHandle { return s.handle }

// AddTransition appends t to the outgoing list. It does not update
// Type; callers that need the type invariant call DetermineStateType
// first.
func (s *State) AddTransition(t Transition) {
	s.Transitions = append(s.Transitions, t)
}

// DetermineStateType advances s.Type on receipt of a new transition.
func (s *State) DetermineStateType(newTrans Transition) {
	interactive := newTrans.Label.IsInteractive()
	switch s.Type {
	case NotDec:
		if interactive {
			s.Type = Interactive
		} else {
			s.Type = Markov
		}
	case Markov:
		if interactive {
			s.Type = Hybrid
		}
	case Interactive:
		if !interactive {
			s.Type = Hybrid
		}
	case Hybrid:
		// unchanged
	}
}

// SetMark sets the mark bit.
func (s *State) SetMark(v bool) { s.Mark = v }

// GetMark returns the mark bit.
func (s *State) GetMark() bool { return s.Mark }

// InteractivePred returns the synthetic interactive predecessor minted
// for this (Markov) state by the rebuilder, if any.
func (s *State) InteractivePred() (StateHandle, bool) {
	return s.interactivePred, s.hasInteractivePred
}

// SetInteractivePred records the synthetic interactive predecessor.
func (s *State) SetInteractivePred(h StateHandle) {
	s.interactivePred = h
	s.hasInteractivePred = true
}

// RemoveTransitionAt removes the transition at index i, preserving the
// relative order of the rest, and returns the index of the element
// that now occupies position i (or len(Transitions) if i was last).
func (s *State) RemoveTransitionAt(i int) int {
	s.Transitions = append(s.Transitions[:i], s.Transitions[i+1:]...)
	return i
}

// IsInteractive reports whether t's label is the interactive variant.
func (t Transition) IsInteractive() bool { return t.Label.IsInteractive() }

// IsTau reports whether t's label is the silent action.
func (t Transition) IsTau() bool { return t.Label.IsTau() }

// Rate returns the transition's Markov rate, or an error if the label
// is interactive (RateNotApplicable).
func (t Transition) Rate() (float64, error) { return t.Label.Rate() }
