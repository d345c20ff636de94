package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imc2ctmdp/internal/domain"
)

func TestTransformImcToCtmdp_ChainCollapse(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	s2 := g.AddState()
	g.SetInitial(s0)

	a, _ := g.Interner.Get("a")
	tau := g.Interner.Tau()
	rate3, _ := g.Interner.Get("rate 3.0")

	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	g.AddTransition(s1, domain.Transition{Target: s2, Label: tau})
	g.AddTransition(s2, domain.Transition{Target: s2, Label: rate3})

	stats, err := TransformImcToCtmdp(g, true)
	assert.NoError(t, err)
	// s1 was only a pass-through interactive relay; closure bypasses it
	// on the way to s2, so it ends up with no predecessor and is pruned.
	// s2's own self-loop is what needs a synthetic interactive
	// predecessor, since a MARKOV state's edge can never target MARKOV
	// directly (not even itself).
	assert.Equal(t, 1, stats.SyntheticPredecessors)
	assert.Equal(t, 1, stats.Pruned)

	assertStrictAlternation(t, g)

	initial, _ := g.Initial()
	assert.Equal(t, s0, initial)
	s0State, _ := g.State(s0)
	assert.Equal(t, domain.Interactive, s0State.Type)
	assert.Len(t, s0State.Transitions, 1)
	assert.Equal(t, "a", s0State.Transitions[0].Label.Text())
	assert.Equal(t, s2, s0State.Transitions[0].Target)

	_, ok := g.State(s1)
	assert.False(t, ok)

	s2State, _ := g.State(s2)
	assert.Equal(t, domain.Markov, s2State.Type)
	assert.Len(t, s2State.Transitions, 1)
	assert.NotEqual(t, s2, s2State.Transitions[0].Target)

	synth, _ := g.State(s2State.Transitions[0].Target)
	assert.Equal(t, domain.Interactive, synth.Type)
	assert.Len(t, synth.Transitions, 1)
	assert.True(t, synth.Transitions[0].IsTau())
	assert.Equal(t, s2, synth.Transitions[0].Target)
}

func TestTransformImcToCtmdp_MarkPropagation(t *testing.T) {
	// The theAction sentinel was already consumed by the codec
	// (prism.go drops it and sets Mark), leaving p with no outgoing
	// edges.
	g := domain.NewGraph()
	p := g.AddState()
	q := g.AddState()
	g.SetInitial(p)
	pState, _ := g.State(p)
	pState.SetMark(true)

	rate2, _ := g.Interner.Get("rate 2")
	g.AddTransition(q, domain.Transition{Target: q, Label: rate2})

	_, err := TransformImcToCtmdp(g, true)
	assert.NoError(t, err)

	assert.True(t, pState.GetMark())
	assert.Equal(t, domain.NotDec, pState.Type)
}

func TestTransformImcToCtmdp_HybridCleanup(t *testing.T) {
	g := domain.NewGraph()
	h := g.AddState()
	x := g.AddState()
	y := g.AddState()
	g.SetInitial(h)

	a, _ := g.Interner.Get("a")
	rate1, _ := g.Interner.Get("rate 1")
	g.AddTransition(h, domain.Transition{Target: x, Label: a})
	g.AddTransition(h, domain.Transition{Target: y, Label: rate1})

	stats, err := TransformImcToCtmdp(g, true)
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.HybridConverted)

	assertStrictAlternation(t, g)
	hState, _ := g.State(h)
	assert.NotEqual(t, domain.Hybrid, hState.Type)
}

func TestTransformImcToCtmdp_PromotesMarkovInitial(t *testing.T) {
	g := domain.NewGraph()
	m := g.AddState()
	g.SetInitial(m)
	rate1, _ := g.Interner.Get("rate 1")
	g.AddTransition(m, domain.Transition{Target: m, Label: rate1})

	stats, err := TransformImcToCtmdp(g, true)
	assert.NoError(t, err)
	assert.True(t, stats.PromotedInitial)

	initial, _ := g.Initial()
	initState, _ := g.State(initial)
	assert.Equal(t, domain.Interactive, initState.Type)
}

func assertStrictAlternation(t *testing.T, g *domain.Graph) {
	t.Helper()
	for _, h := range g.States() {
		s, _ := g.State(h)
		assert.NotEqual(t, domain.Hybrid, s.Type)
		for _, tr := range s.Transitions {
			target, _ := g.State(tr.Target)
			switch s.Type {
			case domain.Interactive:
				assert.NotEqual(t, domain.Interactive, target.Type)
				assert.NotEqual(t, domain.Hybrid, target.Type)
			case domain.Markov:
				assert.NotEqual(t, domain.Markov, target.Type)
				assert.NotEqual(t, domain.Hybrid, target.Type)
			}
		}
	}
}
