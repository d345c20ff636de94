package domain

// Graph owns the state arena and the label interner for one
// transformation run. States are addressed by StateHandle so that
// transitions, back-references, and external references never hold
// owning pointers into the arena — this is what lets prune/sort/rebuild
// passes rewrite the state set in place without dangling references.
type Graph struct {
	states map[StateHandle]*State
	order  []StateHandle
	next   StateHandle

	initial    StateHandle
	hasInitial bool

	Interner *Interner
	Comment  string

	// Configuration flags controlling codec and transform behavior.
	CycleSearch              bool
	SearchForAbsorbingStates bool
	TheAction                string
	ReadyForExport           bool
}

// NewGraph creates an empty graph with its own label interner.
func NewGraph() *Graph {
	return &Graph{
		states:   make(map[StateHandle]*State),
		Interner: NewInterner(),
	}
}

// AddState creates a new NOTDEC state and returns its handle.
func (g *Graph) AddState() StateHandle {
	g.next++
	h := g.next
	g.states[h] = newState(h)
	g.order = append(g.order, h)
	return h
}

// State looks up a state by handle.
func (g *Graph) State(h StateHandle) (*State, bool) {
	s, ok := g.states[h]
	return s, ok
}

// MustState looks up a state, panicking if the handle is not a member.
// Used internally where the handle's membership is already an
// established invariant (e.g. a transition's own target).
func (g *Graph) MustState(h StateHandle) *State {
	s, ok := g.states[h]
	if !ok {
		panic("domain: handle is not a member of this graph")
	}
	return s
}

// SetInitial designates h as the initial state. h must already be a
// member.
func (g *Graph) SetInitial(h StateHandle) {
	g.initial = h
	g.hasInitial = true
}

// Initial returns the initial state's handle.
func (g *Graph) Initial() (StateHandle, bool) {
	return g.initial, g.hasInitial
}

// States returns the current state set in graph order. The returned
// slice is owned by the graph; callers must not mutate it.
func (g *Graph) States() []StateHandle {
	return g.order
}

// Len returns the number of states currently in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// AddTransition appends an edge from src to a (target, label) pair and
// advances src's inferred type. This is the normal entry point codecs
// and the rebuilder use to add edges; it composes State.AddTransition
// and State.DetermineStateType.
func (g *Graph) AddTransition(src StateHandle, t Transition) {
	s := g.MustState(src)
	s.AddTransition(t)
	s.DetermineStateType(t)
}

// RemoveStates deletes the given handles from the arena and rewrites
// g.order to exclude them. Used by unreachable-pruning and by the
// rebuilder's orphan-interactive-state prune.
func (g *Graph) RemoveStates(dead map[StateHandle]bool) {
	if len(dead) == 0 {
		return
	}
	kept := g.order[:0:0]
	for _, h := range g.order {
		if dead[h] {
			delete(g.states, h)
			continue
		}
		kept = append(kept, h)
	}
	g.order = kept
}

// ReplaceOrder installs a new iteration order over the current state
// set, used by SortStatesByNumber. The provided slice must be a
// permutation of the graph's current handles.
func (g *Graph) ReplaceOrder(order []StateHandle) {
	g.order = order
}
