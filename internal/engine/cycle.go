// Package engine implements the graph transformation core: cycle and
// reachability analysis, the interactive-closure engine, the
// alternating-graph rebuilder, and uniformization/pruning/numbering.
package engine

import "imc2ctmdp/internal/domain"

// dfsState tracks the two bits CheckInteractiveCycle needs per state.
type dfsState struct {
	finished bool
	onStack  bool
}

// CheckInteractiveCycle runs a DFS over every INTERACTIVE or HYBRID
// state, following only interactive edges whose target is not MARKOV,
// and reports whether any cycle exists among them. It returns true on
// the first cycle found.
func CheckInteractiveCycle(g *domain.Graph) bool {
	visited := make(map[domain.StateHandle]*dfsState, g.Len())
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type != domain.Interactive && s.Type != domain.Hybrid {
			continue
		}
		if visited[h] != nil && visited[h].finished {
			continue
		}
		if checkInteractiveCycleDFS(g, h, visited) {
			return true
		}
	}
	return false
}

func checkInteractiveCycleDFS(g *domain.Graph, h domain.StateHandle, visited map[domain.StateHandle]*dfsState) bool {
	st := visited[h]
	if st == nil {
		st = &dfsState{}
		visited[h] = st
	}
	if st.finished {
		return false
	}
	st.onStack = true

	s, _ := g.State(h)
	for _, t := range s.Transitions {
		if !t.IsInteractive() {
			continue
		}
		target, _ := g.State(t.Target)
		if target.Type == domain.Markov {
			continue
		}
		ts := visited[t.Target]
		if ts != nil && ts.onStack {
			return true
		}
		if ts != nil && ts.finished {
			continue
		}
		if checkInteractiveCycleDFS(g, t.Target, visited) {
			return true
		}
	}

	st.onStack = false
	st.finished = true
	return false
}

// Reachable reports whether to is reachable from from by BFS, optionally
// restricted to interactive edges only. from == to is trivially true.
func Reachable(g *domain.Graph, from, to domain.StateHandle, onlyInteractive bool) bool {
	if from == to {
		return true
	}
	seen := map[domain.StateHandle]bool{from: true}
	queue := []domain.StateHandle{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		s, ok := g.State(cur)
		if !ok {
			continue
		}
		for _, t := range s.Transitions {
			if onlyInteractive && !t.IsInteractive() {
				continue
			}
			if t.Target == to {
				return true
			}
			if !seen[t.Target] {
				seen[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}
	return false
}
