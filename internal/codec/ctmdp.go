package codec

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"imc2ctmdp/internal/diagnostics"
	"imc2ctmdp/internal/domain"
)

// ctmdpWriter emits the CTMDP (ungrouped) or CTMDPI (grouped) text
// format. Every INTERACTIVE state's edge targets a MARKOV hub with no
// rate of its own; the real numbers belong to that hub's own outgoing
// Markov transitions, so for each (state, action) pair this writer
// hops one step past the hub and sums the hub's transition rates by
// their real downstream target.
type ctmdpWriter struct {
	grouped bool
}

func (c ctmdpWriter) Write(g *domain.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to create "+path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	states := g.States()
	var nrInteractive int
	for _, h := range states {
		s, _ := g.State(h)
		if s.Type == domain.Markov {
			break
		}
		nrInteractive++
	}
	interactiveStates := states[:nrInteractive]

	fmt.Fprintf(w, "STATES %d\n", nrInteractive)
	fmt.Fprintln(w, "#DECLARATION")
	seenActions := make(map[string]bool)
	for _, h := range interactiveStates {
		s, _ := g.State(h)
		for _, t := range s.Transitions {
			action := t.Label.Text()
			if !seenActions[action] {
				seenActions[action] = true
				fmt.Fprintln(w, action)
			}
		}
	}
	fmt.Fprintln(w, "#END")

	leftOut := 0
	for _, h := range interactiveStates {
		s, _ := g.State(h)
		stateSeenActions := make(map[string]bool)
		for _, t := range s.Transitions {
			action := t.Label.Text()
			hub, _ := g.State(t.Target)

			rates := make(map[uint32]float64)
			var order []uint32
			for _, mt := range hub.Transitions {
				r, err := mt.Rate()
				if err != nil {
					return err
				}
				dst, _ := g.State(mt.Target)
				if _, seen := rates[dst.Number]; !seen {
					order = append(order, dst.Number)
				}
				rates[dst.Number] += r
			}
			sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

			if c.grouped {
				fmt.Fprintf(w, "%d %s\n", s.Number+1, action)
				for _, num := range order {
					fmt.Fprintf(w, "* %d %s\n", num+1, domain.FormatRatePrecise(rates[num]))
				}
				continue
			}

			if stateSeenActions[action] {
				leftOut++
				continue
			}
			stateSeenActions[action] = true
			for _, num := range order {
				fmt.Fprintf(w, "%d %d %s %s\n", s.Number+1, num+1, action, domain.FormatRatePrecise(rates[num]))
			}
		}
	}
	if leftOut > 0 {
		diagnostics.Warn().Int("count", leftOut).Msg("left out interactive transitions to avoid internal nondeterminism while writing ctmdp")
	}

	if err := w.Flush(); err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to write "+path, err)
	}

	return labWriter{}.Write(g, replaceExt(path, ".lab"))
}
