package engine

import (
	"imc2ctmdp/internal/diagnostics"
	"imc2ctmdp/internal/domain"
)

// uniformityEpsilon is the relative tolerance shared by CheckUniformity
// and Uniformize.
const uniformityEpsilon = 1e-8

func markovRowSum(s *domain.State) (float64, error) {
	var sum float64
	for _, t := range s.Transitions {
		if t.IsInteractive() {
			continue
		}
		r, err := t.Rate()
		if err != nil {
			return 0, err
		}
		sum += r
	}
	return sum, nil
}

// CheckUniformity reports whether every Markov state's total outgoing
// rate agrees within uniformityEpsilon. A graph with no Markov states
// is trivially uniform (see DESIGN.md).
func CheckUniformity(g *domain.Graph) (bool, error) {
	rMax, rMin, any, err := markovRateBounds(g)
	if err != nil {
		return false, err
	}
	if !any || rMax == 0 {
		return true, nil
	}
	return (rMax-rMin)/rMax <= uniformityEpsilon, nil
}

func markovRateBounds(g *domain.Graph) (rMax, rMin float64, any bool, err error) {
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type != domain.Markov {
			continue
		}
		r, rerr := markovRowSum(s)
		if rerr != nil {
			return 0, 0, false, rerr
		}
		if !any || r > rMax {
			rMax = r
		}
		if !any || r < rMin {
			rMin = r
		}
		any = true
	}
	return rMax, rMin, any, nil
}

// Uniformize raises every Markov state's row sum to targetRate by
// appending a self-loop Markov transition of the shortfall, formatted
// with 10-digit precision. If targetRate is nil, the maximum row sum
// found is used. Rows that exceed the target only warn.
func Uniformize(g *domain.Graph, targetRate *float64) error {
	var target float64
	if targetRate != nil {
		target = *targetRate
	} else {
		rMax, _, any, err := markovRateBounds(g)
		if err != nil {
			return err
		}
		if !any {
			return nil
		}
		target = rMax
	}

	tol := uniformityEpsilon * target
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type != domain.Markov {
			continue
		}
		r, err := markovRowSum(s)
		if err != nil {
			return err
		}
		switch {
		case r < target-tol:
			shortfall := target - r
			lbl, err := g.Interner.Get("rate " + domain.FormatRatePrecise(shortfall))
			if err != nil {
				return err
			}
			g.AddTransition(h, domain.Transition{Target: h, Label: lbl})
		case r > target+tol:
			diagnostics.Warn().
				Uint64("state", uint64(h)).
				Float64("rowSum", r).
				Float64("target", target).
				Msg("Markov row sum exceeds uniformization target")
		}
	}
	return nil
}

// PruneUnreachable deletes every state not reachable from the initial
// state and returns the count removed.
func PruneUnreachable(g *domain.Graph) int {
	initial, ok := g.Initial()
	if !ok {
		return 0
	}
	seen := map[domain.StateHandle]bool{initial: true}
	queue := []domain.StateHandle{initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		s, _ := g.State(cur)
		for _, t := range s.Transitions {
			if !seen[t.Target] {
				seen[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}

	dead := make(map[domain.StateHandle]bool)
	for _, h := range g.States() {
		if !seen[h] {
			dead[h] = true
		}
	}
	g.RemoveStates(dead)
	return len(dead)
}

// NumberStates assigns 0 to the initial state, then 1..k to the
// remaining non-MARKOV states in their current order, then the
// remaining MARKOV states. It warns if the final counter doesn't reach
// len(states)-1.
func NumberStates(g *domain.Graph) {
	var counter uint32
	initial, hasInitial := g.Initial()
	if hasInitial {
		s, _ := g.State(initial)
		s.Number = 0
		counter = 1
	}

	for _, h := range g.States() {
		if hasInitial && h == initial {
			continue
		}
		s, _ := g.State(h)
		if s.Type == domain.Markov {
			continue
		}
		s.Number = counter
		counter++
	}
	for _, h := range g.States() {
		if hasInitial && h == initial {
			continue
		}
		s, _ := g.State(h)
		if s.Type != domain.Markov {
			continue
		}
		s.Number = counter
		counter++
	}

	if int(counter) != g.Len() {
		diagnostics.Warn().
			Int("expected", g.Len()).
			Uint32("assigned", counter).
			Msg("numbering did not reach a full bijection; initial state may be invalid")
	}
}

// SortStatesByNumber rearranges the graph's iteration order so
// position i holds the state numbered i.
func SortStatesByNumber(g *domain.Graph) {
	n := g.Len()
	order := make([]domain.StateHandle, n)
	placed := make([]bool, n)
	for _, h := range g.States() {
		s, _ := g.State(h)
		if int(s.Number) >= n {
			diagnostics.Warn().Uint32("number", s.Number).Int("stateCount", n).Msg("state number out of range")
			continue
		}
		order[s.Number] = h
		placed[s.Number] = true
	}
	for i, ok := range placed {
		if !ok {
			diagnostics.Warn().Int("position", i).Msg("no state claimed this number")
		}
	}
	g.ReplaceOrder(order)
}

// HasInternalNondeterminism reports whether any non-MARKOV state has
// two outgoing transitions sharing the same (interned) label.
func HasInternalNondeterminism(g *domain.Graph) bool {
	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type == domain.Markov {
			continue
		}
		seen := make(map[*domain.Label]bool, len(s.Transitions))
		for _, t := range s.Transitions {
			if seen[t.Label] {
				return true
			}
			seen[t.Label] = true
		}
	}
	return false
}

// PrepareForExport numbers and sorts the graph, idempotent once
// g.ReadyForExport is set.
func PrepareForExport(g *domain.Graph) {
	if g.ReadyForExport {
		return
	}
	NumberStates(g)
	SortStatesByNumber(g)
	g.ReadyForExport = true
}
