package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imc2ctmdp/internal/domain"
)

func TestCheckInteractiveCycle_NoCycle(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	a, _ := g.Interner.Get("a")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	assert.False(t, CheckInteractiveCycle(g))
}

func TestCheckInteractiveCycle_DetectsCycle(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	a, _ := g.Interner.Get("a")
	b, _ := g.Interner.Get("b")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	g.AddTransition(s1, domain.Transition{Target: s0, Label: b})
	assert.True(t, CheckInteractiveCycle(g))
}

func TestCheckInteractiveCycle_IgnoresMarkovTargets(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	s1 := g.AddState()
	a, _ := g.Interner.Get("a")
	rate, _ := g.Interner.Get("rate 1")
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})
	g.AddTransition(s1, domain.Transition{Target: s1, Label: rate})
	assert.False(t, CheckInteractiveCycle(g))
}

func TestReachable_SelfTrivial(t *testing.T) {
	g := domain.NewGraph()
	s0 := g.AddState()
	assert.True(t, Reachable(g, s0, s0, false))
}

func TestReachable_CycleRejection(t *testing.T) {
	// s0--a-->s1 exists; adding s1--b-->s0 would close an interactive
	// cycle. A cycleSearch-aware caller refuses it.
	g := domain.NewGraph()
	g.CycleSearch = true
	s0 := g.AddState()
	s1 := g.AddState()
	a, _ := g.Interner.Get("a")
	g.SetInitial(s0)
	g.AddTransition(s0, domain.Transition{Target: s1, Label: a})

	wouldCycle := Reachable(g, s0, s1, true)
	assert.True(t, wouldCycle)

	if !wouldCycle {
		b, _ := g.Interner.Get("b")
		g.AddTransition(s1, domain.Transition{Target: s0, Label: b})
	}

	s0State, _ := g.State(s0)
	assert.Len(t, s0State.Transitions, 1)
	assert.False(t, CheckInteractiveCycle(g))
}
