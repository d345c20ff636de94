package engine

import "imc2ctmdp/internal/domain"

// RebuildStats summarizes one TransformImcToCtmdp run, for the CLI's
// diagnostic report.
type RebuildStats struct {
	HybridConverted       int
	SyntheticPredecessors int
	Pruned                int
	PromotedInitial       bool
}

// TransformImcToCtmdp rewrites g in place from an IMC into a strictly
// alternating CTMDP. Precondition: CheckInteractiveCycle(g) is false.
func TransformImcToCtmdp(g *domain.Graph, computeLabels bool) (RebuildStats, error) {
	var stats RebuildStats

	// 1. Pre-pass: HYBRID -> INTERACTIVE. The closure engine drops a
	// state's Markov edges purely by edge kind, so retyping here is
	// enough to route these states through the INTERACTIVE branch below.
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type == domain.Hybrid {
			s.Type = domain.Interactive
			stats.HybridConverted++
		}
	}

	// 2. Per-state rewrite.
	interactiveStates := make([]domain.StateHandle, 0, g.Len())
	markovStates := make([]domain.StateHandle, 0, g.Len())
	for _, h := range g.States() {
		s, _ := g.State(h)
		switch s.Type {
		case domain.Interactive:
			interactiveStates = append(interactiveStates, h)
		case domain.Markov:
			markovStates = append(markovStates, h)
		}
	}

	for _, h := range interactiveStates {
		if err := ComputeMarkovSuccs(g, h, computeLabels); err != nil {
			return stats, err
		}
	}

	hasMarkovPred := make(map[domain.StateHandle]bool)
	for _, h := range markovStates {
		s, _ := g.State(h)
		for i, e := range s.Transitions {
			target, _ := g.State(e.Target)
			if target.Type != domain.Markov {
				hasMarkovPred[e.Target] = true
				continue
			}

			var pred domain.StateHandle
			if existing, ok := target.InteractivePred(); ok {
				pred = existing
			} else {
				pred = g.AddState()
				predState, _ := g.State(pred)
				predState.Type = domain.Interactive
				tau := g.Interner.Tau()
				g.AddTransition(pred, domain.Transition{Target: e.Target, Label: tau})
				predState.Mark = target.Mark
				target.SetInteractivePred(pred)
				stats.SyntheticPredecessors++
			}
			hasMarkovPred[pred] = true
			s.Transitions[i] = domain.Transition{Target: pred, Label: e.Label}
		}
	}

	// 3. Prune orphan INTERACTIVE states (no Markov predecessor, not
	// initial).
	initial, hasInitial := g.Initial()
	dead := make(map[domain.StateHandle]bool)
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type != domain.Interactive {
			continue
		}
		if hasInitial && h == initial {
			continue
		}
		if hasMarkovPred[h] {
			continue
		}
		dead[h] = true
	}
	stats.Pruned = len(dead)
	g.RemoveStates(dead)

	// 4. Initial-state promotion.
	if hasInitial {
		initState, _ := g.State(initial)
		if initState.Type == domain.Markov {
			promoted := g.AddState()
			promotedState, _ := g.State(promoted)
			promotedState.Type = domain.Interactive
			tau := g.Interner.Tau()
			g.AddTransition(promoted, domain.Transition{Target: initial, Label: tau})
			promotedState.Mark = initState.Mark
			g.SetInitial(promoted)
			stats.PromotedInitial = true
		}
	}

	return stats, nil
}
