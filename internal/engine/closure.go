package engine

import "imc2ctmdp/internal/domain"

// dfsLabelText is substituted for an edge's label when ComputeMarkovSuccs
// is run with computeLabels=false — callers only need the collapsed
// graph shape, not the composed action names.
const dfsLabelText = "DFS"

// ComputeMarkovSuccs recursively rewrites s's edge set to its effective
// Markov/terminal successors, collapsing interactive chains and
// composing labels along the way. It is memoized via
// State.MarkovSuccFinished and assumes the graph has no interactive
// cycles (CheckInteractiveCycle false).
func ComputeMarkovSuccs(g *domain.Graph, s domain.StateHandle, computeLabels bool) error {
	state, _ := g.State(s)
	if state.MarkovSuccFinished {
		return nil
	}
	state.MarkovSuccFinished = true // before recursion: safe under the no-cycles precondition

	original := state.Transitions
	newEdges := make([]domain.Transition, 0, len(original))
	anyMarkedTarget := false

	for _, e := range original {
		if !e.IsInteractive() {
			// s was HYBRID; its Markov edges are discarded.
			continue
		}

		target, _ := g.State(e.Target)

		if target.Type == domain.Markov || target.Type == domain.NotDec {
			kept := e
			if !computeLabels {
				dfsLabel, err := g.Interner.Get(dfsLabelText)
				if err != nil {
					return err
				}
				kept = domain.Transition{Target: e.Target, Label: dfsLabel}
			}
			newEdges = append(newEdges, kept)
			if target.Mark {
				anyMarkedTarget = true
			}
			continue
		}

		if e.Target == s {
			// Interactive self-loop: impossible under cycle-freeness,
			// handled defensively by dropping.
			continue
		}

		// target is INTERACTIVE or HYBRID: recurse, then splice in its
		// closed (Markov/terminal-only) edges.
		if err := ComputeMarkovSuccs(g, e.Target, computeLabels); err != nil {
			return err
		}
		for _, inner := range target.Transitions {
			var composed domain.Transition
			if computeLabels {
				if inner.IsTau() {
					composed = domain.Transition{Target: inner.Target, Label: e.Label}
				} else {
					lbl, err := inner.Label.Prepend(e.Label, g.Interner)
					if err != nil {
						return err
					}
					composed = domain.Transition{Target: inner.Target, Label: lbl}
				}
			} else {
				composed = inner
			}
			newEdges = append(newEdges, composed)
		}
		if target.Mark {
			anyMarkedTarget = true
		}
	}

	if !state.Mark && anyMarkedTarget {
		state.Mark = true
	}
	state.Transitions = newEdges
	return nil
}
