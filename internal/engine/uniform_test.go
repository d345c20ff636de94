package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imc2ctmdp/internal/domain"
)

func TestCheckUniformity_TriviallyTrueWithNoMarkovStates(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s0, Label: a})
	uniform, err := CheckUniformity(g)
	assert.NoError(t, err)
	assert.True(t, uniform)
}

func TestCheckUniformity_DetectsMismatch(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	r1, _ := g.Interner.Get("rate 1")
	r2, _ := g.Interner.Get("rate 2")
	g.AddTransition(s0, domain.Transition{Target: s0, Label: r1})
	g.AddTransition(s1, domain.Transition{Target: s1, Label: r2})
	uniform, err := CheckUniformity(g)
	assert.NoError(t, err)
	assert.False(t, uniform)
}

func TestUniformize_RaisesShortfallToTarget(t *testing.T) {
	// Two MARKOV states with row sums 1 and 3; uniformize to 3 adds a
	// rate-2 self-loop to the lighter state.
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	r1, _ := g.Interner.Get("rate 1")
	r3, _ := g.Interner.Get("rate 3")
	g.AddTransition(s0, domain.Transition{Target: s0, Label: r1})
	g.AddTransition(s1, domain.Transition{Target: s1, Label: r3})

	assert.NoError(t, Uniformize(g, nil))

	s0State, _ := g.State(s0)
	sum, err := markovRowSum(s0State)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, sum, 1e-6)

	s1State, _ := g.State(s1)
	assert.Len(t, s1State.Transitions, 1)

	uniform, err := CheckUniformity(g)
	assert.NoError(t, err)
	assert.True(t, uniform)
}

func TestUniformize_ExplicitTargetBelowRowSumWarnsOnly(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	r5, _ := g.Interner.Get("rate 5")
	g.AddTransition(s0, domain.Transition{Target: s0, Label: r5})

	target := 2.0
	assert.NoError(t, Uniformize(g, &target))

	s0State, _ := g.State(s0)
	assert.Len(t, s0State.Transitions, 1)
	sum, _ := markovRowSum(s0State)
	assert.InDelta(t, 5.0, sum, 1e-6)
}

func TestPruneUnreachable_RemovesUnreachedStates(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	orphan := g.AddState()
	g.SetInitial(s0)
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	_ = orphan

	removed := PruneUnreachable(g)
	assert.Equal(t, 1, removed)
	_, ok := g.State(orphan)
	assert.False(t, ok)
	_, ok = g.State(s1)
	assert.True(t, ok)
}

func TestNumberStates_InitialIsZeroThenNonMarkovThenMarkov(t *testing.T) {
	g := domain.NewGraph()
	initial := g.AddState()
	nonMarkov := g.AddState()
	markov := g.AddState()
	g.SetInitial(initial)
	a, _ := g.Interner.Get("a")
	r1, _ := g.Interner.Get("rate 1")
	g.AddTransition(initial, domain.Transition{Target: nonMarkov, Label: a})
	g.AddTransition(markov, domain.Transition{Target: markov, Label: r1})

	NumberStates(g)

	initState, _ := g.State(initial)
	assert.Equal(t, uint32(0), initState.Number)

	nonMarkovState, _ := g.State(nonMarkov)
	markovState, _ := g.State(markov)
	assert.Less(t, nonMarkovState.Number, markovState.Number)
	assert.NotEqual(t, uint32(0), nonMarkovState.Number)
}

func TestSortStatesByNumber_ReordersToMatchNumber(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	g.SetInitial(s1)
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})

	NumberStates(g)
	SortStatesByNumber(g)

	order := g.States()
	assert.Len(t, order, 2)
	first, _ := g.State(order[0])
	assert.Equal(t, uint32(0), first.Number)
}

func TestHasInternalNondeterminism_DetectsDuplicateLabel(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	s2 := g.AddState()
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	g.AddTransition(s0, domain.Transition{Target: s2, Label: a})
	assert.True(t, HasInternalNondeterminism(g))
}

func TestHasInternalNondeterminism_FalseForDistinctLabels(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	s2 := g.AddState()
	a, _ := g.Interner.Get("a")
	b, _ := g.Interner.Get("b")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	g.AddTransition(s0, domain.Transition{Target: s2, Label: b})
	assert.False(t, HasInternalNondeterminism(g))
}

func TestPrepareForExport_IsIdempotent(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	g.SetInitial(s0)
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})

	PrepareForExport(g)
	assert.True(t, g.ReadyForExport)
	firstOrder := append([]domain.StateHandle(nil), g.States()...)

	PrepareForExport(g)
	assert.Equal(t, firstOrder, g.States())
}
