package codec

import (
	"strings"

	"imc2ctmdp/internal/domain"
)

// replaceExt swaps path's extension for newExt (which should include
// the leading dot). Used by writers that auto-emit a companion file
// alongside their primary output (ctmdp/etmcc writers also write a
// .lab file).
func replaceExt(path, newExt string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[:idx] + newExt
	}
	return path + newExt
}

// isAbsorbing reports whether every two-step path from s returns to
// s: for every outgoing edge's target, every outgoing edge of that
// target leads back to s, per the .lab format's absorbing-state
// definition.
// A state with no outgoing edges is vacuously absorbing.
func isAbsorbing(g *domain.Graph, h domain.StateHandle) bool {
	s, _ := g.State(h)
	if len(s.Transitions) == 0 {
		return true
	}
	for _, t := range s.Transitions {
		mid, _ := g.State(t.Target)
		if len(mid.Transitions) == 0 {
			return false
		}
		for _, t2 := range mid.Transitions {
			if t2.Target != h {
				return false
			}
		}
	}
	return true
}
